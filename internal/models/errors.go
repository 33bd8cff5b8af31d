package models

import "errors"

var (
	// ErrNotFound means a referenced match, outcome or prediction does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidationFailed means the input was rejected before any mutation
	ErrValidationFailed = errors.New("validation failed")

	// ErrAccessDenied means the caller lacks the subscription or role required
	ErrAccessDenied = errors.New("access denied")

	// ErrStoreUnavailable means the persistence layer failed
	ErrStoreUnavailable = errors.New("store unavailable")
)
