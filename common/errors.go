package common

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by the stores and services. Handlers translate
// them into the response envelope; anything unrecognized is treated as
// a storage failure.
var (
	// ErrNotFound covers missing weddings/media/users and ownership
	// mismatches alike, so callers cannot probe for other users' data.
	ErrNotFound       = errors.New("not found")
	ErrInvalidSection = errors.New("invalid section")
	ErrValidation     = errors.New("validation failed")
	ErrStorage        = errors.New("storage failure")
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidSection), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
