package services

import (
	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
)

// Validity classifies a stored signature against the current revision
// state. The public payload never distinguishes Absent from Invalid (both
// omit address and signature), but the engine tracks all three states so
// tests can tell them apart.
type Validity int

const (
	ValidityAbsent Validity = iota
	ValidityInvalid
	ValidityValid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "absent"
	}
}

// SignatureValidator is a pure predicate over stored signatures. A
// signature endorses a specific (content hash, registry address) pair; it
// is valid only while both still match the current state.
type SignatureValidator struct {
	registryAddress string
	metrics         *metrics.Metrics
}

func NewSignatureValidator(registryAddress string, m *metrics.Metrics) *SignatureValidator {
	return &SignatureValidator{
		registryAddress: registryAddress,
		metrics:         m,
	}
}

func (v *SignatureValidator) Check(sig *models.Signature, contentHash string) Validity {
	if sig == nil {
		return ValidityAbsent
	}

	validity := ValidityInvalid
	if sig.ContentHash == contentHash && sig.RegistryAddress == v.registryAddress {
		validity = ValidityValid
	}

	if v.metrics != nil {
		v.metrics.SignatureChecksTotal.WithLabelValues(validity.String()).Inc()
	}
	return validity
}

func (v *SignatureValidator) IsValid(sig *models.Signature, contentHash string) bool {
	return v.Check(sig, contentHash) == ValidityValid
}
