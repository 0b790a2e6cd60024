// Package store defines the persistence collaborators the engine depends
// on: a document/revision store and an identity directory. The engine only
// assumes create/read/list/delete of records keyed by identity.
package store

import (
	"context"
	"errors"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
)

var ErrNotFound = errors.New("record not found")

type DocumentStore interface {
	GetDocument(ctx context.Context, id uint) (*models.Document, error)
	SaveDocument(ctx context.Context, doc *models.Document) error

	CreateRevision(ctx context.Context, rev *models.Revision) error
	GetRevision(ctx context.Context, id uint) (*models.Revision, error)
	// ListRevisions returns all revisions of a document. Callers must not
	// assume any particular order; external actors may reorder records.
	ListRevisions(ctx context.Context, documentID uint) ([]models.Revision, error)
	DeleteRevision(ctx context.Context, id uint) error
	// FindRevisionsByHash returns all revisions carrying the given content
	// hash, ordered by ascending revision ID.
	FindRevisionsByHash(ctx context.Context, hash string) ([]models.Revision, error)

	ListSignatures(ctx context.Context, documentID uint) ([]models.Signature, error)
	PutSignature(ctx context.Context, sig *models.Signature) error
}

type UserDirectory interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByAddress(ctx context.Context, address string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	CountUsers(ctx context.Context) (int64, error)
}
