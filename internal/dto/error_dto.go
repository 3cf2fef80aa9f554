package dto

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP error middleware knows how to map.
var (
	ErrInvalidPassword = errors.New("invalid dashboard password")
	ErrInvalidAPIKey   = errors.New("service key does not look valid")
	ErrSessionNotFound = errors.New("session expired or unknown")
	ErrNoTable         = errors.New("no product table uploaded yet")
	ErrNoTrends        = errors.New("no trend summary computed yet")
	ErrNoAPIKey        = errors.New("no service key set for this session")
	ErrRowOutOfRange   = errors.New("row index outside the product table")
)

// UploadError is terminal for an upload action: the operation aborts
// and no partial table is retained.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload rejected: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("upload rejected: %s", e.Reason)
}

func (e *UploadError) Unwrap() error { return e.Err }
