package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/hashing"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"go.uber.org/zap"
)

// RevisionService owns the revision lifecycle: snapshot creation on edit
// events and pruning on the first publish transition.
type RevisionService struct {
	docs     store.DocumentStore
	payloads *PayloadService
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewRevisionService(docs store.DocumentStore, payloads *PayloadService, logger *zap.Logger, m *metrics.Metrics) *RevisionService {
	return &RevisionService{
		docs:     docs,
		payloads: payloads,
		logger:   logger.With(zap.String("service", "revision_service")),
		metrics:  m,
	}
}

// CaptureRevision snapshots the document on a qualifying edit event. A new
// revision is created unconditionally, even when the body is byte-identical
// to the previous one: metadata-only edits (tags, signatures) must still
// produce an immutable snapshot.
func (rs *RevisionService) CaptureRevision(ctx context.Context, documentID uint) (*models.Revision, error) {
	doc, err := rs.docs.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	contentHash := hashing.HashString(doc.Body)
	payload := rs.payloads.Assemble(ctx, doc, contentHash)

	rev := &models.Revision{
		DocumentID:  doc.ID,
		Title:       doc.Title,
		Body:        doc.Body,
		Excerpt:     doc.Excerpt,
		ContentHash: contentHash,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}

	if err := rs.docs.CreateRevision(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to persist revision: %w", err)
	}

	if rs.metrics != nil {
		rs.metrics.RevisionsCreatedTotal.Inc()
	}
	rs.logger.Info("Captured revision",
		zap.Uint("document_id", doc.ID),
		zap.Uint("revision_id", rev.ID),
		zap.String("content_hash", contentHash))

	return rev, nil
}

// TransitionStatus moves a document between publish states. The first
// transition into published prunes every revision except the most recent;
// re-publishing an already published document prunes nothing.
func (rs *RevisionService) TransitionStatus(ctx context.Context, documentID uint, newStatus models.DocumentStatus) error {
	doc, err := rs.docs.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	oldStatus := doc.Status
	doc.Status = newStatus
	if newStatus == models.StatusPublished && doc.PublishedAt == nil {
		now := time.Now().UTC()
		doc.PublishedAt = &now
	}

	if err := rs.docs.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	if newStatus == models.StatusPublished && oldStatus != models.StatusPublished {
		if err := rs.purgeRevisions(ctx, doc.ID); err != nil {
			return err
		}
	}

	return nil
}

// purgeRevisions deletes all revisions but the one with the numerically
// greatest ID. Storage order is not trusted; external actors may reorder
// records.
func (rs *RevisionService) purgeRevisions(ctx context.Context, documentID uint) error {
	revs, err := rs.docs.ListRevisions(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list revisions: %w", err)
	}
	if len(revs) == 0 {
		return nil
	}

	latest := revs[0].ID
	for _, rev := range revs[1:] {
		if rev.ID > latest {
			latest = rev.ID
		}
	}

	pruned := 0
	for _, rev := range revs {
		if rev.ID == latest {
			continue
		}
		if err := rs.docs.DeleteRevision(ctx, rev.ID); err != nil {
			return fmt.Errorf("failed to delete revision %d: %w", rev.ID, err)
		}
		pruned++
		if rs.metrics != nil {
			rs.metrics.RevisionsPrunedTotal.Inc()
		}
	}

	rs.logger.Info("Purged revisions on publish",
		zap.Uint("document_id", documentID),
		zap.Uint("kept_revision_id", latest),
		zap.Int("pruned", pruned))

	return nil
}
