package store

import (
	"context"
	"errors"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"gorm.io/gorm"
)

// GormStore implements DocumentStore and UserDirectory on a gorm database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *GormStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Save(doc).Error
}

func (s *GormStore) CreateRevision(ctx context.Context, rev *models.Revision) error {
	return s.db.WithContext(ctx).Create(rev).Error
}

func (s *GormStore) GetRevision(ctx context.Context, id uint) (*models.Revision, error) {
	var rev models.Revision
	if err := s.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rev, nil
}

func (s *GormStore) ListRevisions(ctx context.Context, documentID uint) ([]models.Revision, error) {
	var revs []models.Revision
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

func (s *GormStore) DeleteRevision(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Revision{}, "id = ?", id).Error
}

func (s *GormStore) FindRevisionsByHash(ctx context.Context, hash string) ([]models.Revision, error) {
	var revs []models.Revision
	if err := s.db.WithContext(ctx).
		Where("content_hash = ?", hash).
		Order("id ASC").
		Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

func (s *GormStore) ListSignatures(ctx context.Context, documentID uint) ([]models.Signature, error) {
	var sigs []models.Signature
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("id ASC").
		Find(&sigs).Error; err != nil {
		return nil, err
	}
	return sigs, nil
}

func (s *GormStore) PutSignature(ctx context.Context, sig *models.Signature) error {
	// One stored signature per signer per document; a resubmission replaces
	// the previous one.
	var existing models.Signature
	err := s.db.WithContext(ctx).
		Where("document_id = ? AND signer_id = ?", sig.DocumentID, sig.SignerID).
		First(&existing).Error
	if err == nil {
		sig.ID = existing.ID
		return s.db.WithContext(ctx).Save(sig).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(sig).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "wallet_address = ?", address).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
