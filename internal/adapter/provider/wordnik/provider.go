// Package wordnik looks up definitions via the Wordnik v4 API.
// Requires an API key from developer.wordnik.com.
package wordnik

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

const defaultBaseURL = "https://api.wordnik.com/v4/word.json"

// Provider fetches definitions from the Wordnik API.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default Wordnik API URL.
func NewProvider(apiKey string, logger *slog.Logger, timeout time.Duration) *Provider {
	return NewProviderWithURL(defaultBaseURL, apiKey, logger, timeout)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL, apiKey string, logger *slog.Logger, timeout time.Duration) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "wordnik"),
	}
}

// Name implements provider.Definer.
func (p *Provider) Name() string { return "wordnik" }

// Define fetches the first definition for the word.
// Returns nil, nil if the word is not known to the service.
func (p *Provider) Define(ctx context.Context, word string) (*provider.Result, error) {
	q := url.Values{
		"limit":              {"1"},
		"includeRelated":     {"false"},
		"sourceDictionaries": {"all"},
		"useCanonical":       {"false"},
		"includeTags":        {"false"},
		"api_key":            {p.apiKey},
	}
	reqURL := fmt.Sprintf("%s/%s/definitions?%s",
		p.baseURL, url.PathEscape(domain.NormalizeText(word)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wordnik: create request: %w", err)
	}
	req.Header.Set("User-Agent", "gamedict/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordnik: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("wordnik: status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("wordnik: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wordnik: read body: %w", err)
	}

	var defs []apiDefinition
	if err := json.Unmarshal(body, &defs); err != nil {
		return nil, fmt.Errorf("wordnik: decode json: %w", err)
	}

	if len(defs) == 0 {
		return nil, nil
	}

	def := domain.NormalizeDefinition(defs[0].Text)
	if def == "" {
		return nil, nil
	}

	pos := defs[0].PartOfSpeech
	if pos == "" {
		pos = "unknown"
	}

	p.log.DebugContext(ctx, "wordnik response", slog.String("word", word), slog.String("pos", pos))

	return &provider.Result{Word: word, Definition: def, PartOfSpeech: pos}, nil
}

// apiDefinition is the subset of the Wordnik definition payload we consume.
type apiDefinition struct {
	Text         string `json:"text"`
	PartOfSpeech string `json:"partOfSpeech"`
}
