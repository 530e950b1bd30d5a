// pkg/models/errors.go
package models

import "errors"

// Error taxonomy for the discovery layer. Callers test with errors.Is;
// components wrap these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound: a counter target (or catalog entry) does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: structurally malformed input, e.g. an unknown sort key.
	// Out-of-range pagination values are clamped instead of raising this.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateLimited: the fixed-window quota is exhausted
	ErrRateLimited = errors.New("rate limited")

	// ErrStoreUnavailable: backing store timeout or connection failure
	ErrStoreUnavailable = errors.New("store unavailable")
)
