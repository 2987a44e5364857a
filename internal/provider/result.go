// Package provider defines the contract between the definition
// enricher and the external lookup services it falls back across.
package provider

import "context"

// Result is the structured result from a definition lookup service.
// Definition is already normalized (trimmed, trailing period stripped,
// first letter upper-cased); PartOfSpeech falls back to "unknown" when
// the service omits it.
type Result struct {
	Word         string
	Definition   string
	PartOfSpeech string
}

// Definer is a single external lookup service.
//
// Define returns (nil, nil) when the service has no entry for the word.
// Errors wrapping domain.ErrRateLimited mark rate-limit/auth rejections
// (terminal for this service); any other error is treated as transient
// and retried by the caller.
type Definer interface {
	Name() string
	Define(ctx context.Context, word string) (*Result, error)
}
