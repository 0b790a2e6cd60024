package services

import (
	"errors"
)

var (
	ErrDocumentNotFound = errors.New("no document found")
	ErrRevisionNotFound = errors.New("no revision found")
	ErrUserNotFound     = errors.New("no user found")
	ErrNotEligible      = errors.New("document kind is not eligible for hashing")
	ErrInvalidSession   = errors.New("invalid session token")
)
