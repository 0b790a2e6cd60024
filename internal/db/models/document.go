package models

import (
	"time"
)

type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPublished DocumentStatus = "published"
)

// SecondaryByline credits a contributor who is neither an author nor a
// signer. Either UserID or CustomName must be set for the byline to appear
// in the revision payload.
type SecondaryByline struct {
	Role       string `json:"role"`
	UserID     uint   `json:"id,omitempty"`
	CustomName string `json:"custom_name,omitempty"`
}

type Document struct {
	ID                    uint   `gorm:"primaryKey"`
	Kind                  string `gorm:"not null;default:'post'"`
	Title                 string `gorm:"not null"`
	Slug                  string `gorm:"index"`
	Body                  string
	Excerpt               string
	Status                DocumentStatus    `gorm:"not null;default:'draft'"`
	AuthorIDs             []uint            `gorm:"serializer:json"`
	SecondaryBylines      []SecondaryByline `gorm:"serializer:json"`
	Tags                  []string          `gorm:"serializer:json"`
	PrimaryCategory       string
	CredibilityIndicators []string `gorm:"serializer:json"`
	ThumbnailURL          string
	ThumbnailWidth        int
	ThumbnailHeight       int
	PublishedAt           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
