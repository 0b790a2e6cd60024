package models

import (
	"time"
)

// Signature is an externally submitted endorsement of a (content hash,
// registry address) pair. It is stored against the document, not a specific
// revision, and inspected when a revision payload is assembled.
type Signature struct {
	ID              uint   `gorm:"primaryKey"`
	DocumentID      uint   `gorm:"index;not null"`
	SignerID        uint   `gorm:"index;not null"`
	WalletAddress   string `gorm:"not null"`
	RegistryAddress string `gorm:"not null"`
	ContentHash     string `gorm:"not null"`
	SignatureHex    string `gorm:"not null"`
	CreatedAt       time.Time
}
