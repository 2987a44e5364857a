// Package wordsapi looks up definitions via WordsAPI on RapidAPI.
// Requires a RapidAPI key; free tier allows 2500 requests/day.
package wordsapi

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

const defaultBaseURL = "https://wordsapiv1.p.rapidapi.com/words"

const rapidAPIHost = "wordsapiv1.p.rapidapi.com"

// Provider fetches definitions from WordsAPI.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default WordsAPI URL.
func NewProvider(apiKey string, logger *slog.Logger, timeout time.Duration) *Provider {
	return NewProviderWithURL(defaultBaseURL, apiKey, logger, timeout)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL, apiKey string, logger *slog.Logger, timeout time.Duration) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "wordsapi"),
	}
}

// Name implements provider.Definer.
func (p *Provider) Name() string { return "wordsapi" }

// Define fetches the first result's definition and part of speech.
// Returns nil, nil if the word is not known to the service.
// 401, 403 and 429 responses classify as domain.ErrRateLimited.
func (p *Provider) Define(ctx context.Context, word string) (*provider.Result, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(domain.NormalizeText(word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wordsapi: create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", rapidAPIHost)
	req.Header.Set("User-Agent", "gamedict/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordsapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("wordsapi: status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("wordsapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wordsapi: read body: %w", err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("wordsapi: decode json: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}

	def := domain.NormalizeDefinition(payload.Results[0].Definition)
	if def == "" {
		return nil, nil
	}

	pos := payload.Results[0].PartOfSpeech
	if pos == "" {
		pos = "unknown"
	}

	p.log.DebugContext(ctx, "wordsapi response", slog.String("word", word), slog.String("pos", pos))

	return &provider.Result{Word: word, Definition: def, PartOfSpeech: pos}, nil
}

// apiResponse is the subset of the WordsAPI word payload we consume.
type apiResponse struct {
	Results []apiResult `json:"results"`
}

type apiResult struct {
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"partOfSpeech"`
}
