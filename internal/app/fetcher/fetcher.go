// Package fetcher downloads the upstream word list and updates the
// local flat list. Downloads retry on a constant backoff; the existing
// list is backed up before any change and restored on every failure
// path. A significantly smaller upstream list requires interactive
// confirmation before it replaces the local one.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/gamedict/internal/adapter/wordlist"
	"github.com/heartmarshall/gamedict/internal/config"
	"github.com/heartmarshall/gamedict/internal/domain"
)

const chunkSize = 8192

// milestones are the download percentages worth a log line.
var milestones = []int{1, 50, 100}

// ConfirmFunc asks the user a yes/no question and reports the answer.
type ConfirmFunc func(prompt string) bool

// Result summarizes a completed fetch.
type Result struct {
	TotalWords int
	Added      int
	Removed    int
	Cancelled  bool // user declined the shrinkage confirmation
	UpToDate   bool
}

// Fetcher downloads and maintains the flat word list.
type Fetcher struct {
	log     *slog.Logger
	cfg     config.FetchConfig
	store   *wordlist.Store
	client  *http.Client
	confirm ConfirmFunc
}

// New creates a Fetcher. confirm is consulted on suspicious updates;
// pass cli prompt wiring in production and a stub in tests.
func New(logger *slog.Logger, cfg config.FetchConfig, store *wordlist.Store, confirm ConfirmFunc) *Fetcher {
	return &Fetcher{
		log:     logger.With("op", "fetch"),
		cfg:     cfg,
		store:   store,
		client:  &http.Client{Timeout: cfg.Timeout},
		confirm: confirm,
	}
}

// Run downloads the word list, validates it, diffs it against the
// existing list and writes the update atomically. On any failure after
// the backup was taken, the backup is restored.
func (f *Fetcher) Run(ctx context.Context) (*Result, error) {
	existing, err := f.store.Load()
	if err != nil {
		return nil, fmt.Errorf("fetcher: load existing list: %w", err)
	}
	if len(existing) > 0 {
		f.log.Info("loaded existing words", slog.Int("count", len(existing)))
	}

	hadList := f.store.Exists()
	if hadList {
		if err := f.store.Backup(); err != nil {
			f.log.Error("backup failed", slog.String("error", err.Error()))
			if !f.confirm("Failed to create backup. Continue anyway?") {
				return &Result{Cancelled: true}, nil
			}
		}
	}

	content, err := f.download(ctx)
	if err != nil {
		f.restoreAfterFailure(hadList, "download failure")
		return nil, fmt.Errorf("fetcher: download: %w", err)
	}

	downloaded := f.validate(splitLines(content))
	f.log.Info("downloaded valid words", slog.Int("count", len(downloaded)))

	added, removed := wordlist.Diff(existing, downloaded)
	if len(added) == 0 && len(removed) == 0 && len(existing) == len(downloaded) {
		f.log.Info("word list is up to date")
		return &Result{TotalWords: len(existing), UpToDate: true}, nil
	}
	if len(removed) > 0 {
		f.log.Warn("words removed from source", slog.Int("count", len(removed)))
	}

	// A sharply smaller list usually means a broken download, not a
	// real upstream change. Ask before accepting it.
	if len(existing) > 0 && float64(len(downloaded)) < float64(len(existing))*f.cfg.ShrinkThreshold {
		f.log.Warn("new word list is significantly smaller",
			slog.Int("new", len(downloaded)),
			slog.Int("old", len(existing)),
		)
		prompt := fmt.Sprintf("New list has %d fewer words. Continue?", len(existing)-len(downloaded))
		if !f.confirm(prompt) {
			f.log.Info("update cancelled by user due to size reduction")
			f.restoreAfterFailure(hadList, "user cancellation")
			return &Result{TotalWords: len(existing), Cancelled: true}, nil
		}
	}

	if err := f.store.Save(downloaded); err != nil {
		f.restoreAfterFailure(hadList, "update failure")
		return nil, fmt.Errorf("fetcher: save list: %w", err)
	}

	f.log.Info("word list updated",
		slog.Int("added", len(added)),
		slog.Int("removed", len(removed)),
		slog.Int("total", len(downloaded)),
	)

	return &Result{TotalWords: len(downloaded), Added: len(added), Removed: len(removed)}, nil
}

// download fetches the list body with bounded retries (constant delay)
// and milestone progress logging.
func (f *Fetcher) download(ctx context.Context) (string, error) {
	var body string

	attempt := 0
	operation := func() error {
		attempt++
		f.log.Info("downloading word list",
			slog.String("url", f.cfg.URL),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", f.cfg.RetryAttempts),
		)

		data, err := f.downloadOnce(ctx)
		if err != nil {
			f.log.Error("download attempt failed", slog.String("error", err.Error()))
			return err
		}
		body = data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(f.cfg.RetryDelay),
			uint64(f.cfg.RetryAttempts-1),
		),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return body, nil
}

func (f *Fetcher) downloadOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	total := resp.ContentLength
	var data []byte
	buf := make([]byte, chunkSize)
	logged := make(map[int]bool)
	start := time.Now()

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if total > 0 {
				pct := int(int64(len(data)) * 100 / total)
				for _, m := range milestones {
					if pct >= m && !logged[m] {
						logged[m] = true
						f.log.Info("download progress",
							slog.Int("percent", m),
							slog.Int("bytes", len(data)),
							slog.Int64("total", total),
						)
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
	}

	f.log.Info("download successful",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start).Round(100*time.Millisecond)),
	)
	return string(data), nil
}

// validate filters tokens down to acceptable lowercase words.
func (f *Fetcher) validate(tokens []string) []string {
	valid := make([]string, 0, len(tokens))
	invalid := 0
	for _, tok := range tokens {
		if domain.ValidWord(tok) {
			valid = append(valid, domain.NormalizeText(tok))
		} else {
			invalid++
		}
	}
	if invalid > 0 {
		f.log.Warn("filtered out invalid entries", slog.Int("count", invalid))
	}
	return valid
}

func (f *Fetcher) restoreAfterFailure(hadList bool, reason string) {
	if !hadList {
		return
	}
	if err := f.store.Restore(); err != nil {
		f.log.Error("backup restore failed",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return
	}
	f.log.Info("restored word list from backup", slog.String("reason", reason))
}

func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
