package definer

import (
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stats accumulates counters for a definition run: words attempted,
// definitions found per service and failures per error class. The
// clock is injected so rate and ETA math is testable.
type Stats struct {
	clock clockwork.Clock
	start time.Time
	total int

	processed int
	found     int
	byService map[string]int
	errors    map[string]int
}

func NewStats(clock clockwork.Clock, total int) *Stats {
	return &Stats{
		clock:     clock,
		start:     clock.Now(),
		total:     total,
		byService: make(map[string]int),
		errors:    make(map[string]int),
	}
}

// Hit records a word defined by the named service.
func (s *Stats) Hit(service string) {
	s.processed++
	s.found++
	s.byService[service]++
}

// Miss records a word no service could define. The miss also shows up
// in the error-kind counters as not_found.
func (s *Stats) Miss() {
	s.processed++
	s.errors["not_found"]++
}

// Error counts a failure by class (rate_limited, timeout, ...).
// It does not advance the processed counter; the word outcome is
// still recorded through Hit or Miss.
func (s *Stats) Error(kind string) {
	s.errors[kind]++
}

func (s *Stats) Processed() int { return s.processed }
func (s *Stats) Found() int     { return s.found }

// SuccessPct is the share of processed words that got a definition.
func (s *Stats) SuccessPct() float64 {
	if s.processed == 0 {
		return 0
	}
	return float64(s.found) / float64(s.processed) * 100
}

// Rate returns words processed per minute since the run started.
func (s *Stats) Rate() float64 {
	elapsed := s.clock.Since(s.start)
	if elapsed <= 0 || s.processed == 0 {
		return 0
	}
	return float64(s.processed) / elapsed.Minutes()
}

// ETA estimates the time left for the remaining words at the current
// rate. Zero when the rate is unknown or nothing remains.
func (s *Stats) ETA() time.Duration {
	rate := s.Rate()
	remaining := s.total - s.processed
	if rate <= 0 || remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) / rate * float64(time.Minute)).Round(time.Second)
}

// LogValue renders the counters as a structured group for progress and
// summary log lines.
func (s *Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("processed", s.processed),
		slog.Int("total", s.total),
		slog.Int("found", s.found),
		slog.Float64("success_pct", s.SuccessPct()),
		slog.Float64("words_per_minute", s.Rate()),
		slog.Duration("eta", s.ETA()),
	}
	for _, service := range sortedKeys(s.byService) {
		attrs = append(attrs, slog.Int("hits_"+service, s.byService[service]))
	}
	for _, kind := range sortedKeys(s.errors) {
		attrs = append(attrs, slog.Int("errors_"+kind, s.errors[kind]))
	}
	return slog.GroupValue(attrs...)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
