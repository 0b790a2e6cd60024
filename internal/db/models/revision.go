package models

import (
	"time"
)

type Contributor struct {
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	Address   string `json:"address,omitempty"`
	Signature string `json:"signature,omitempty"`
}

type ImageAsset struct {
	URL  string `json:"url"`
	Hash string `json:"hash"`
	H    int    `json:"h"`
	W    int    `json:"w"`
}

// RevisionPayload is the contributor/asset/classification snapshot bound to
// a revision at creation time. It is stored inline on the revision row so
// pruning a revision removes its payload with it.
type RevisionPayload struct {
	Contributors          []Contributor `json:"contributors"`
	Images                []ImageAsset  `json:"images"`
	Tags                  []string      `json:"tags"`
	PrimaryTag            string        `json:"primaryTag"`
	CredibilityIndicators []string      `json:"credibilityIndicators"`
}

// Revision is an immutable snapshot of a document. Rows are only ever
// created and deleted, never updated.
type Revision struct {
	ID          uint `gorm:"primaryKey"`
	DocumentID  uint `gorm:"index;not null"`
	Title       string
	Body        string
	Excerpt     string
	ContentHash string          `gorm:"index;not null"`
	Payload     RevisionPayload `gorm:"serializer:json"`
	CreatedAt   time.Time
}
