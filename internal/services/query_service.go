package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joincivil/civil-newsroom-plugin/internal/config"
	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"go.uber.org/zap"
)

// RevisionView is the cleaned, flattened payload exposed to the anchoring
// system for a single revision.
type RevisionView struct {
	Title                 string               `json:"title"`
	RevisionContentHash   string               `json:"revisionContentHash"`
	RevisionContentURL    string               `json:"revisionContentUrl"`
	CanonicalURL          string               `json:"canonicalUrl"`
	Slug                  string               `json:"slug"`
	Description           string               `json:"description"`
	Contributors          []models.Contributor `json:"contributors"`
	Images                []models.ImageAsset  `json:"images"`
	Tags                  []string             `json:"tags"`
	PrimaryTag            string               `json:"primaryTag"`
	RevisionDate          time.Time            `json:"revisionDate"`
	OriginalPublishDate   *time.Time           `json:"originalPublishDate"`
	CredibilityIndicators []string             `json:"credibilityIndicators"`
	Opinion               bool                 `json:"opinion"`
	SchemaVersion         string               `json:"civilSchemaVersion"`
}

// QueryService serves read-only lookups over persisted revisions.
type QueryService struct {
	docs          store.DocumentStore
	baseURL       string
	schemaVersion string
	hashableKinds map[string]bool
	logger        *zap.Logger
}

func NewQueryService(docs store.DocumentStore, cfg config.RegistryConfig, baseURL string, logger *zap.Logger) *QueryService {
	kinds := make(map[string]bool, len(cfg.HashableKinds))
	for _, kind := range cfg.HashableKinds {
		kinds[kind] = true
	}
	return &QueryService{
		docs:          docs,
		baseURL:       baseURL,
		schemaVersion: cfg.SchemaVersion,
		hashableKinds: kinds,
		logger:        logger.With(zap.String("service", "query_service")),
	}
}

// CanExposeHash reports whether the document's kind is configured to have
// its content hashes exposed.
func (qs *QueryService) CanExposeHash(doc *models.Document) bool {
	return qs.hashableKinds[doc.Kind]
}

func (qs *QueryService) RevisionPayload(ctx context.Context, revisionID uint) (*RevisionView, error) {
	rev, err := qs.docs.GetRevision(ctx, revisionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}

	doc, err := qs.docs.GetDocument(ctx, rev.DocumentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if !qs.CanExposeHash(doc) {
		return nil, ErrNotEligible
	}

	return &RevisionView{
		Title:                 rev.Title,
		RevisionContentHash:   rev.ContentHash,
		RevisionContentURL:    fmt.Sprintf("%s/revisions-content/%s", qs.baseURL, rev.ContentHash),
		CanonicalURL:          fmt.Sprintf("%s/%s", qs.baseURL, doc.Slug),
		Slug:                  doc.Slug,
		Description:           rev.Excerpt,
		Contributors:          rev.Payload.Contributors,
		Images:                rev.Payload.Images,
		Tags:                  rev.Payload.Tags,
		PrimaryTag:            rev.Payload.PrimaryTag,
		RevisionDate:          rev.CreatedAt,
		OriginalPublishDate:   doc.PublishedAt,
		CredibilityIndicators: rev.Payload.CredibilityIndicators,
		Opinion:               false,
		SchemaVersion:         qs.schemaVersion,
	}, nil
}

// LatestRevisionID scans every revision of the document and returns the
// numerically greatest ID. Storage order is deliberately not trusted.
func (qs *QueryService) LatestRevisionID(ctx context.Context, documentID uint) (uint, error) {
	revs, err := qs.docs.ListRevisions(ctx, documentID)
	if err != nil {
		return 0, err
	}
	if len(revs) == 0 {
		return 0, ErrRevisionNotFound
	}

	latest := revs[0].ID
	for _, rev := range revs[1:] {
		if rev.ID > latest {
			latest = rev.ID
		}
	}
	return latest, nil
}

// ContentByHash returns the raw body of the revision carrying the given
// content hash. Should multiple revisions ever match, the one with the
// smallest ID wins.
func (qs *QueryService) ContentByHash(ctx context.Context, hash string) (string, error) {
	revs, err := qs.docs.FindRevisionsByHash(ctx, hash)
	if err != nil {
		return "", err
	}
	if len(revs) == 0 {
		return "", ErrRevisionNotFound
	}
	return revs[0].Body, nil
}
