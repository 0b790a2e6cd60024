package services

import (
	"context"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/hashing"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"go.uber.org/zap"
)

// PayloadService assembles the metadata snapshot bound to a revision:
// contributors, image assets and classification values, copied from the
// document's state at assembly time.
type PayloadService struct {
	docs      store.DocumentStore
	users     store.UserDirectory
	validator *SignatureValidator
	images    *hashing.ImageHasher
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewPayloadService(
	docs store.DocumentStore,
	users store.UserDirectory,
	validator *SignatureValidator,
	images *hashing.ImageHasher,
	logger *zap.Logger,
	m *metrics.Metrics,
) *PayloadService {
	return &PayloadService{
		docs:      docs,
		users:     users,
		validator: validator,
		images:    images,
		logger:    logger.With(zap.String("service", "payload_service")),
		metrics:   m,
	}
}

// Assemble never fails as a whole. A sub-part that cannot be built (an
// unresolvable byline, an unreachable image) is logged and omitted so the
// revision write still goes through with the rest of the payload.
func (ps *PayloadService) Assemble(ctx context.Context, doc *models.Document, contentHash string) models.RevisionPayload {
	return models.RevisionPayload{
		Contributors:          ps.contributorData(ctx, doc, contentHash),
		Images:                ps.imageAssets(ctx, doc),
		Tags:                  copyStrings(doc.Tags),
		PrimaryTag:            doc.PrimaryCategory,
		CredibilityIndicators: copyStrings(doc.CredibilityIndicators),
	}
}

// contributorData builds the contributor list in a fixed order: primary
// authors first, then leftover non-author signers as editors, then
// secondary bylines.
func (ps *PayloadService) contributorData(ctx context.Context, doc *models.Document, contentHash string) []models.Contributor {
	contributors := []models.Contributor{}

	sigs, err := ps.docs.ListSignatures(ctx, doc.ID)
	if err != nil {
		ps.dropPart("list signatures", err)
		sigs = nil
	}

	bySigner := make(map[uint]int, len(sigs))
	consumed := make([]bool, len(sigs))
	for i, sig := range sigs {
		bySigner[sig.SignerID] = i
	}

	for _, authorID := range doc.AuthorIDs {
		user, err := ps.users.GetUser(ctx, authorID)
		if err != nil {
			// Whether or not the author resolves, their signature is spoken
			// for and must not resurface as an editor entry below.
			if idx, ok := bySigner[authorID]; ok {
				consumed[idx] = true
			}
			ps.dropPart("resolve author", err)
			continue
		}

		entry := models.Contributor{
			Role: "author",
			Name: displayName(user),
		}

		if idx, ok := bySigner[authorID]; ok && !consumed[idx] {
			consumed[idx] = true
			if ps.validator.Check(&sigs[idx], contentHash) == ValidityValid {
				entry.Address = sigs[idx].WalletAddress
				entry.Signature = sigs[idx].SignatureHex
			}
		}

		contributors = append(contributors, entry)
	}

	// Anybody who signed but is not an author is assumed to have done so in
	// an editorial capacity.
	for i := range sigs {
		if consumed[i] {
			continue
		}

		entry := models.Contributor{Role: "editor"}
		if user, err := ps.users.GetUser(ctx, sigs[i].SignerID); err == nil {
			entry.Name = displayName(user)
		} else {
			ps.dropPart("resolve signer", err)
		}

		if ps.validator.Check(&sigs[i], contentHash) == ValidityValid {
			entry.Address = sigs[i].WalletAddress
			entry.Signature = sigs[i].SignatureHex
		}

		contributors = append(contributors, entry)
	}

	// Secondary bylines carry no signatures.
	for _, byline := range doc.SecondaryBylines {
		if byline.Role == "" || (byline.UserID == 0 && byline.CustomName == "") {
			continue
		}

		entry := models.Contributor{Role: byline.Role}
		if byline.UserID != 0 {
			user, err := ps.users.GetUser(ctx, byline.UserID)
			if err != nil {
				ps.dropPart("resolve byline", err)
				continue
			}
			entry.Name = displayName(user)
		} else {
			entry.Name = byline.CustomName
		}

		contributors = append(contributors, entry)
	}

	return contributors
}

// imageAssets is currently limited to the document's designated thumbnail.
func (ps *PayloadService) imageAssets(ctx context.Context, doc *models.Document) []models.ImageAsset {
	assets := []models.ImageAsset{}

	if doc.ThumbnailURL == "" {
		return assets
	}

	digest, err := ps.images.HashImage(ctx, doc.ThumbnailURL)
	if err != nil {
		ps.dropPart("hash thumbnail", err)
		return assets
	}

	assets = append(assets, models.ImageAsset{
		URL:  doc.ThumbnailURL,
		Hash: digest,
		H:    doc.ThumbnailHeight,
		W:    doc.ThumbnailWidth,
	})

	return assets
}

func (ps *PayloadService) dropPart(part string, err error) {
	ps.logger.Warn("Omitting payload sub-part",
		zap.String("part", part),
		zap.Error(err))
	if ps.metrics != nil {
		ps.metrics.PayloadPartsDropped.Inc()
	}
}

func displayName(user *models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

func copyStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
