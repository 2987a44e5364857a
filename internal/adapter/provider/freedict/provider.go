package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/heartmarshall/gamedict/internal/domain"
	"github.com/heartmarshall/gamedict/internal/provider"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const userAgent = "gamedict/1.0"

// Provider fetches definitions from the FreeDictionary API. It needs no
// API key and is therefore first in the fallback chain.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default FreeDictionary API URL.
func NewProvider(logger *slog.Logger, timeout time.Duration) *Provider {
	return NewProviderWithURL(defaultBaseURL, logger, timeout)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger, timeout time.Duration) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// Name implements provider.Definer.
func (p *Provider) Name() string { return "free_dict" }

// Define fetches the first definition and part of speech for the word.
// Returns nil, nil if the word is not known to the service.
func (p *Provider) Define(ctx context.Context, word string) (*provider.Result, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(domain.NormalizeText(word))

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("freedict: status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}

	result := mapAPIResponse(word, entries)
	if result == nil {
		return nil, nil
	}

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.String("pos", result.PartOfSpeech),
	)

	return result, nil
}

// mapAPIResponse picks the first definition of the first meaning and
// normalizes it. Returns nil when the response carries no usable text.
func mapAPIResponse(word string, entries []apiEntry) *provider.Result {
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return nil
	}

	meaning := entries[0].Meanings[0]
	if len(meaning.Definitions) == 0 {
		return nil
	}

	def := domain.NormalizeDefinition(meaning.Definitions[0].Definition)
	if def == "" {
		return nil
	}

	pos := meaning.PartOfSpeech
	if pos == "" {
		pos = "unknown"
	}

	return &provider.Result{
		Word:         word,
		Definition:   def,
		PartOfSpeech: pos,
	}
}
