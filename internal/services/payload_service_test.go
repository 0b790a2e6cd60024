package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/hashing"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"go.uber.org/zap"
)

type stubFetcher struct {
	payload []byte
	err     error
}

func (f stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.payload, f.err
}

func newTestPayloadService(t *testing.T, st *store.MemoryStore, fetcher hashing.Fetcher) *PayloadService {
	t.Helper()
	if fetcher == nil {
		fetcher = stubFetcher{payload: []byte("image-bytes")}
	}
	hasher := hashing.NewImageHasher(fetcher, time.Hour, zap.NewNop(), nil)
	t.Cleanup(hasher.Close)
	validator := NewSignatureValidator(testRegistry, nil)
	return NewPayloadService(st, st, validator, hasher, zap.NewNop(), nil)
}

func mustSaveUser(t *testing.T, st *store.MemoryStore, user models.User) models.User {
	t.Helper()
	if err := st.SaveUser(context.Background(), &user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return user
}

func mustPutSignature(t *testing.T, st *store.MemoryStore, sig models.Signature) {
	t.Helper()
	if err := st.PutSignature(context.Background(), &sig); err != nil {
		t.Fatalf("put signature: %v", err)
	}
}

func TestAssembleContributorOrdering(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	alice := mustSaveUser(t, st, models.User{Username: "alice", Email: "a@n.example", PasswordHash: "x", DisplayName: "Alice"})
	bob := mustSaveUser(t, st, models.User{Username: "bob", Email: "b@n.example", PasswordHash: "x", DisplayName: "Bob"})
	carol := mustSaveUser(t, st, models.User{Username: "carol", Email: "c@n.example", PasswordHash: "x", DisplayName: "Carol"})

	doc := models.Document{
		Kind:      "post",
		Title:     "Ordering",
		Body:      "body",
		AuthorIDs: []uint{alice.ID, bob.ID},
		SecondaryBylines: []models.SecondaryByline{
			{Role: "photographer", CustomName: "Dave"},
		},
	}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	contentHash := hashing.HashString(doc.Body)
	mustPutSignature(t, st, models.Signature{
		DocumentID:      doc.ID,
		SignerID:        carol.ID,
		WalletAddress:   "0xcccccccccccccccccccccccccccccccccccccccc",
		RegistryAddress: testRegistry,
		ContentHash:     contentHash,
		SignatureHex:    "0xsigC",
	})

	ps := newTestPayloadService(t, st, nil)
	payload := ps.Assemble(ctx, &doc, contentHash)

	want := []struct {
		role string
		name string
	}{
		{"author", "Alice"},
		{"author", "Bob"},
		{"editor", "Carol"},
		{"photographer", "Dave"},
	}

	if len(payload.Contributors) != len(want) {
		t.Fatalf("expected %d contributors, got %d: %+v", len(want), len(payload.Contributors), payload.Contributors)
	}
	for i, w := range want {
		got := payload.Contributors[i]
		if got.Role != w.role || got.Name != w.name {
			t.Errorf("contributor %d: expected %s/%s, got %s/%s", i, w.role, w.name, got.Role, got.Name)
		}
	}

	// Carol's signature matches current state, so it is attached.
	if payload.Contributors[2].Address == "" || payload.Contributors[2].Signature == "" {
		t.Error("expected valid editor signature to be attached")
	}
}

func TestAssembleSignatureGate(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	alice := mustSaveUser(t, st, models.User{Username: "alice", Email: "a@n.example", PasswordHash: "x", DisplayName: "Alice"})

	doc := models.Document{Kind: "post", Title: "Gate", Body: "body", AuthorIDs: []uint{alice.ID}}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}
	contentHash := hashing.HashString(doc.Body)

	tests := []struct {
		name     string
		sig      models.Signature
		attached bool
	}{
		{
			name: "matching hash and registry",
			sig: models.Signature{
				WalletAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				RegistryAddress: testRegistry,
				ContentHash:     contentHash,
				SignatureHex:    "0xsig",
			},
			attached: true,
		},
		{
			name: "stale hash",
			sig: models.Signature{
				WalletAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				RegistryAddress: testRegistry,
				ContentHash:     "0xstale",
				SignatureHex:    "0xsig",
			},
			attached: false,
		},
		{
			name: "wrong registry",
			sig: models.Signature{
				WalletAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				RegistryAddress: otherRegistry,
				ContentHash:     contentHash,
				SignatureHex:    "0xsig",
			},
			attached: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sig := tc.sig
			sig.DocumentID = doc.ID
			sig.SignerID = alice.ID
			mustPutSignature(t, st, sig)

			ps := newTestPayloadService(t, st, nil)
			payload := ps.Assemble(ctx, &doc, contentHash)

			if len(payload.Contributors) != 1 {
				t.Fatalf("expected 1 contributor, got %d", len(payload.Contributors))
			}
			author := payload.Contributors[0]
			if author.Role != "author" || author.Name != "Alice" {
				t.Fatalf("unexpected author entry: %+v", author)
			}

			// Invalid signatures drop silently: the entry is present, just
			// without address or signature.
			if tc.attached && (author.Address == "" || author.Signature == "") {
				t.Error("expected signature to be attached")
			}
			if !tc.attached && (author.Address != "" || author.Signature != "") {
				t.Error("expected signature to be dropped")
			}
		})
	}
}

func TestAssembleConsumedAuthorSignatureNotReemitted(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	alice := mustSaveUser(t, st, models.User{Username: "alice", Email: "a@n.example", PasswordHash: "x", DisplayName: "Alice"})

	doc := models.Document{Kind: "post", Title: "Consume", Body: "body", AuthorIDs: []uint{alice.ID}}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	// Stale author signature: inspected, found invalid, and consumed. It
	// must not reappear as an editor entry.
	mustPutSignature(t, st, models.Signature{
		DocumentID:      doc.ID,
		SignerID:        alice.ID,
		WalletAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		RegistryAddress: testRegistry,
		ContentHash:     "0xstale",
		SignatureHex:    "0xsig",
	})

	ps := newTestPayloadService(t, st, nil)
	payload := ps.Assemble(ctx, &doc, hashing.HashString(doc.Body))

	if len(payload.Contributors) != 1 {
		t.Fatalf("expected exactly 1 contributor, got %d: %+v", len(payload.Contributors), payload.Contributors)
	}
	if payload.Contributors[0].Role != "author" {
		t.Fatalf("unexpected role %q", payload.Contributors[0].Role)
	}
}

func TestAssembleSecondaryBylines(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	dave := mustSaveUser(t, st, models.User{Username: "dave", Email: "d@n.example", PasswordHash: "x", DisplayName: "Dave"})

	doc := models.Document{
		Kind:  "post",
		Title: "Bylines",
		Body:  "body",
		SecondaryBylines: []models.SecondaryByline{
			{Role: "photographer", UserID: dave.ID},
			{Role: "researcher", CustomName: "External Expert"},
			{Role: "", CustomName: "No Role"},          // skipped: no role
			{Role: "editor-at-large"},                  // skipped: no name source
			{Role: "illustrator", UserID: 9999},        // skipped: unresolvable, logged
		},
	}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	ps := newTestPayloadService(t, st, nil)
	payload := ps.Assemble(ctx, &doc, hashing.HashString(doc.Body))

	if len(payload.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %d: %+v", len(payload.Contributors), payload.Contributors)
	}
	if payload.Contributors[0].Name != "Dave" || payload.Contributors[0].Role != "photographer" {
		t.Errorf("unexpected first byline: %+v", payload.Contributors[0])
	}
	if payload.Contributors[1].Name != "External Expert" || payload.Contributors[1].Role != "researcher" {
		t.Errorf("unexpected second byline: %+v", payload.Contributors[1])
	}
}

func TestAssembleThumbnail(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	doc := models.Document{
		Kind:            "post",
		Title:           "Thumb",
		Body:            "body",
		ThumbnailURL:    "https://example.com/thumb.jpg",
		ThumbnailWidth:  640,
		ThumbnailHeight: 480,
	}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	ps := newTestPayloadService(t, st, stubFetcher{payload: []byte("thumb-bytes")})
	payload := ps.Assemble(ctx, &doc, hashing.HashString(doc.Body))

	if len(payload.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(payload.Images))
	}
	img := payload.Images[0]
	if img.URL != doc.ThumbnailURL || img.W != 640 || img.H != 480 {
		t.Errorf("unexpected image asset: %+v", img)
	}
	if img.Hash != hashing.Hash([]byte("thumb-bytes")) {
		t.Errorf("unexpected image hash: %q", img.Hash)
	}
}

func TestAssembleThumbnailFetchFailureOmitsImage(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	doc := models.Document{
		Kind:         "post",
		Title:        "Thumb",
		Body:         "body",
		ThumbnailURL: "https://example.com/unreachable.jpg",
		Tags:         []string{"news"},
	}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	ps := newTestPayloadService(t, st, stubFetcher{err: errors.New("connection refused")})
	payload := ps.Assemble(ctx, &doc, hashing.HashString(doc.Body))

	// Partial assembly: the image is dropped, the rest survives.
	if len(payload.Images) != 0 {
		t.Fatalf("expected no images, got %d", len(payload.Images))
	}
	if len(payload.Tags) != 1 || payload.Tags[0] != "news" {
		t.Errorf("expected tags to survive partial failure: %+v", payload.Tags)
	}
}

func TestAssembleSnapshotsClassification(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	doc := models.Document{
		Kind:                  "post",
		Title:                 "Snapshot",
		Body:                  "body",
		Tags:                  []string{"politics", "local"},
		PrimaryCategory:       "politics",
		CredibilityIndicators: []string{"original_reporting", "sources_cited"},
	}
	if err := st.SaveDocument(ctx, &doc); err != nil {
		t.Fatalf("save document: %v", err)
	}

	ps := newTestPayloadService(t, st, nil)
	payload := ps.Assemble(ctx, &doc, hashing.HashString(doc.Body))

	// Mutating the document afterwards must not affect the snapshot.
	doc.Tags[0] = "mutated"
	doc.CredibilityIndicators[0] = "mutated"

	if payload.Tags[0] != "politics" || payload.CredibilityIndicators[0] != "original_reporting" {
		t.Error("payload shares backing arrays with the document")
	}
	if payload.PrimaryTag != "politics" {
		t.Errorf("unexpected primary tag %q", payload.PrimaryTag)
	}
}
