package domain

import "errors"

// Sentinel errors used across all layers. A lookup service with no
// entry for a word is not an error: providers return (nil, nil).
var (
	// ErrRateLimited covers rate-limit and auth rejections (401/403/429).
	// Terminal per service, logged as a warning.
	ErrRateLimited = errors.New("rate limited")

	// ErrParse marks a malformed persisted file. Callers log it and
	// treat the store as empty rather than aborting.
	ErrParse = errors.New("parse error")
)
