package wordsapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/heartmarshall/gamedict/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefine_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-RapidAPI-Key"); got != "key123" {
			t.Errorf("X-RapidAPI-Key = %q, want key123", got)
		}
		if got := r.Header.Get("X-RapidAPI-Host"); got != rapidAPIHost {
			t.Errorf("X-RapidAPI-Host = %q, want %q", got, rapidAPIHost)
		}
		w.Write([]byte(`{"results":[{"definition":"a small vehicle.","partOfSpeech":"noun"}]}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "key123", newTestLogger(), 2*time.Second)
	result, err := p.Define(context.Background(), "cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.Definition != "A small vehicle" {
		t.Errorf("Definition = %q, want %q", result.Definition, "A small vehicle")
	}
	if result.PartOfSpeech != "noun" {
		t.Errorf("PartOfSpeech = %q, want noun", result.PartOfSpeech)
	}
}

func TestDefine_AuthStatusesClassifyAsRateLimited(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		p := NewProviderWithURL(srv.URL, "bad", newTestLogger(), 2*time.Second)
		_, err := p.Define(context.Background(), "cart")
		if !errors.Is(err, domain.ErrRateLimited) {
			t.Errorf("status %d: expected ErrRateLimited, got %v", status, err)
		}
		srv.Close()
	}
}

func TestDefine_EmptyResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "key", newTestLogger(), 2*time.Second)
	result, err := p.Define(context.Background(), "cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}
