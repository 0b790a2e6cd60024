package store

import (
	"context"
	"sort"
	"sync"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
)

// MemoryStore is an in-memory implementation of DocumentStore and
// UserDirectory, used by tests and local experiments. Writes are
// last-write-wins at record granularity, mirroring the database behavior.
type MemoryStore struct {
	mu         sync.RWMutex
	documents  map[uint]models.Document
	revisions  []models.Revision
	signatures []models.Signature
	users      map[uint]models.User

	nextDocumentID  uint
	nextRevisionID  uint
	nextSignatureID uint
	nextUserID      uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[uint]models.Document),
		users:     make(map[uint]models.User),
	}
}

func (s *MemoryStore) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.documents[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (s *MemoryStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == 0 {
		s.nextDocumentID++
		doc.ID = s.nextDocumentID
	} else if doc.ID > s.nextDocumentID {
		s.nextDocumentID = doc.ID
	}
	s.documents[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) CreateRevision(ctx context.Context, rev *models.Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev.ID == 0 {
		s.nextRevisionID++
		rev.ID = s.nextRevisionID
	} else if rev.ID > s.nextRevisionID {
		s.nextRevisionID = rev.ID
	}
	s.revisions = append(s.revisions, *rev)
	return nil
}

func (s *MemoryStore) GetRevision(ctx context.Context, id uint) (*models.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rev := range s.revisions {
		if rev.ID == id {
			r := rev
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRevisions(ctx context.Context, documentID uint) ([]models.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var revs []models.Revision
	for _, rev := range s.revisions {
		if rev.DocumentID == documentID {
			revs = append(revs, rev)
		}
	}
	return revs, nil
}

func (s *MemoryStore) DeleteRevision(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rev := range s.revisions {
		if rev.ID == id {
			s.revisions = append(s.revisions[:i], s.revisions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) FindRevisionsByHash(ctx context.Context, hash string) ([]models.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var revs []models.Revision
	for _, rev := range s.revisions {
		if rev.ContentHash == hash {
			revs = append(revs, rev)
		}
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].ID < revs[j].ID })
	return revs, nil
}

func (s *MemoryStore) ListSignatures(ctx context.Context, documentID uint) ([]models.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sigs []models.Signature
	for _, sig := range s.signatures {
		if sig.DocumentID == documentID {
			sigs = append(sigs, sig)
		}
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].ID < sigs[j].ID })
	return sigs, nil
}

func (s *MemoryStore) PutSignature(ctx context.Context, sig *models.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.signatures {
		if existing.DocumentID == sig.DocumentID && existing.SignerID == sig.SignerID {
			sig.ID = existing.ID
			s.signatures[i] = *sig
			return nil
		}
	}

	if sig.ID == 0 {
		s.nextSignatureID++
		sig.ID = s.nextSignatureID
	} else if sig.ID > s.nextSignatureID {
		s.nextSignatureID = sig.ID
	}
	s.signatures = append(s.signatures, *sig)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByAddress(ctx context.Context, address string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *models.User
	for _, user := range s.users {
		if user.WalletAddress != "" && user.WalletAddress == address {
			if match == nil || user.ID < match.ID {
				u := user
				match = &u
			}
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		s.nextUserID++
		user.ID = s.nextUserID
	} else if user.ID > s.nextUserID {
		s.nextUserID = user.ID
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
