// Package progress persists the set of words already attempted in an
// enrichment run, enabling resume after interruption. The set lives in
// a small JSON document and is flushed on a time interval rather than
// on every mark.
package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/gamedict/internal/domain"
)

// fileDocument is the on-disk JSON shape.
type fileDocument struct {
	ProcessedWords []string  `json:"processed_words"`
	LastUpdated    time.Time `json:"last_updated"`
	TotalProcessed int       `json:"total_processed"`
}

// Tracker records attempted words and flushes them to disk periodically.
type Tracker struct {
	path         string
	saveInterval time.Duration
	clock        clockwork.Clock
	log          *slog.Logger

	processed map[string]bool
	lastSave  time.Time
}

// New creates a Tracker persisting to path, flushing at most once per
// saveInterval.
func New(path string, saveInterval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		path:         path,
		saveInterval: saveInterval,
		clock:        clock,
		log:          logger.With("adapter", "progress"),
		processed:    make(map[string]bool),
		lastSave:     clock.Now(),
	}
}

// Load reads the persisted set from a previous run. A missing file is
// not an error; a malformed file is logged and treated as empty.
// Returns the number of words loaded.
func (t *Tracker) Load() int {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.log.Warn("could not read progress file", slog.String("error", err.Error()))
		}
		return 0
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.log.Warn("malformed progress file, starting fresh", slog.String("error", err.Error()))
		return 0
	}

	for _, w := range doc.ProcessedWords {
		t.processed[domain.NormalizeText(w)] = true
	}
	return len(t.processed)
}

// Save writes the current set to disk.
func (t *Tracker) Save() error {
	words := make([]string, 0, len(t.processed))
	for w := range t.processed {
		words = append(words, w)
	}
	sort.Strings(words)

	doc := fileDocument{
		ProcessedWords: words,
		LastUpdated:    t.clock.Now(),
		TotalProcessed: len(words),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("progress: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("progress: create dir: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("progress: write %s: %w", t.path, err)
	}

	t.lastSave = t.clock.Now()
	return nil
}

// Mark records the word as attempted and flushes to disk when the save
// interval has elapsed since the last flush. Flush failures are logged,
// not returned: losing a periodic save must not abort the run.
func (t *Tracker) Mark(word string) {
	t.processed[domain.NormalizeText(word)] = true

	if t.clock.Since(t.lastSave) >= t.saveInterval {
		if err := t.Save(); err != nil {
			t.log.Warn("could not save progress", slog.String("error", err.Error()))
		}
	}
}

// Contains reports whether the word was already attempted.
func (t *Tracker) Contains(word string) bool {
	return t.processed[domain.NormalizeText(word)]
}

// Count returns the number of attempted words.
func (t *Tracker) Count() int { return len(t.processed) }

// Filter returns the words not yet attempted, preserving order.
func (t *Tracker) Filter(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !t.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// Clear removes the progress file and resets the in-memory set. Called
// only when a run attempted its full selected batch.
func (t *Tracker) Clear() {
	t.processed = make(map[string]bool)
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		t.log.Warn("could not remove progress file", slog.String("error", err.Error()))
	}
}
