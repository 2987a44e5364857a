// Package definer fills in missing definitions in the XML dictionary
// by querying a chain of external lookup services. Words are chosen by
// a selection strategy, each word walks the service chain with bounded
// retries, and progress is checkpointed so an interrupted run resumes
// where it stopped.
package definer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/gamedict/internal/adapter/dictxml"
	"github.com/heartmarshall/gamedict/internal/adapter/progress"
	"github.com/heartmarshall/gamedict/internal/config"
	"github.com/heartmarshall/gamedict/internal/domain"
	"github.com/heartmarshall/gamedict/internal/provider"
)

// Options control a single definition run. Zero values fall back to
// the configured defaults.
type Options struct {
	Count     int
	Strategy  string
	Delay     time.Duration
	BatchSize int
	DryRun    bool
	Resume    bool
	NoBackup  bool
	Output    string // write the enriched dictionary here instead of in place
}

// Result summarizes a completed (or interrupted) definition run.
type Result struct {
	Selected   int
	Processed  int
	Found      int
	BackupPath string
	Cancelled  bool
}

// Definer runs the enrichment pipeline over the dictionary store.
type Definer struct {
	log       *slog.Logger
	cfg       config.DefineConfig
	lookup    config.LookupConfig
	dict      *dictxml.Store
	tracker   *progress.Tracker
	providers []provider.Definer
	clock     clockwork.Clock
	rng       *rand.Rand
}

// New wires a Definer. providers are tried in order for every word;
// clock and rng are injected for tests (pass clockwork.NewRealClock
// and a time-seeded rand in production).
func New(
	logger *slog.Logger,
	cfg config.DefineConfig,
	lookup config.LookupConfig,
	dict *dictxml.Store,
	tracker *progress.Tracker,
	providers []provider.Definer,
	clock clockwork.Clock,
	rng *rand.Rand,
) *Definer {
	return &Definer{
		log:       logger.With("op", "define"),
		cfg:       cfg,
		lookup:    lookup,
		dict:      dict,
		tracker:   tracker,
		providers: providers,
		clock:     clock,
		rng:       rng,
	}
}

// Run selects undefined words and walks each through the service
// chain. A cancelled context stops the loop early; everything found so
// far is still written and the progress file reflects the stop point.
func (d *Definer) Run(ctx context.Context, opts Options) (*Result, error) {
	opts = d.withDefaults(opts)
	if !ValidStrategy(opts.Strategy) {
		return nil, fmt.Errorf("definer: unknown strategy %q (valid: %v)", opts.Strategy, Strategies)
	}

	doc, err := d.dict.Load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("definer: dictionary %s does not exist, run convert first", d.dict.Path)
	case err != nil:
		return nil, fmt.Errorf("definer: load dictionary: %w", err)
	}

	undefined := doc.Undefined()
	d.log.Info("dictionary loaded",
		slog.Int("words", doc.Len()),
		slog.Int("defined", doc.DefinedCount()),
		slog.Int("undefined", len(undefined)),
	)
	if len(undefined) == 0 {
		d.log.Info("all words are already defined")
		return &Result{}, nil
	}

	pool := undefined
	if opts.Resume {
		if n := d.tracker.Load(); n > 0 {
			pool = d.tracker.Filter(undefined)
			d.log.Info("resuming previous run",
				slog.Int("already_processed", n),
				slog.Int("remaining", len(pool)),
			)
		}
	} else {
		d.tracker.Clear()
	}
	if len(pool) == 0 {
		d.log.Info("no words left to process, clearing progress")
		d.tracker.Clear()
		return &Result{}, nil
	}

	selected := Select(pool, opts.Strategy, opts.Count, d.rng)
	d.log.Info("selected words for definition",
		slog.Int("count", len(selected)),
		slog.String("strategy", opts.Strategy),
	)

	if opts.DryRun {
		d.logDryRun(selected)
		return &Result{Selected: len(selected)}, nil
	}

	stats := NewStats(d.clock, len(selected))
	res := &Result{Selected: len(selected)}

	for i, word := range selected {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		lookup, service := d.defineWord(ctx, word, stats)
		if lookup != nil {
			if doc.SetDefinition(word, lookup.Definition, lookup.PartOfSpeech) {
				stats.Hit(service)
			} else {
				stats.Miss()
			}
		} else {
			if ctx.Err() != nil {
				res.Cancelled = true
				break
			}
			stats.Miss()
			d.log.Debug("no definition found", slog.String("word", word))
		}
		d.tracker.Mark(word)
		res.Processed++

		if (i+1)%opts.BatchSize == 0 {
			d.log.Info("batch complete", slog.Any("stats", stats))
		}

		if i < len(selected)-1 {
			if err := d.sleep(ctx, opts.Delay); err != nil {
				res.Cancelled = true
				break
			}
		}
	}

	res.Found = stats.Found()
	if res.Cancelled {
		d.log.Warn("run interrupted, saving partial results", slog.Any("stats", stats))
	} else {
		d.log.Info("definition run complete", slog.Any("stats", stats))
	}

	if res.Found > 0 {
		target := d.dict
		if opts.Output != "" {
			target = dictxml.New(opts.Output)
		}
		backupPath, err := target.Save(doc, !opts.NoBackup)
		if err != nil {
			return res, fmt.Errorf("definer: save dictionary: %w", err)
		}
		res.BackupPath = backupPath
	}

	if !res.Cancelled && res.Processed >= len(pool) {
		// Every remaining word was attempted; next run starts fresh.
		d.tracker.Clear()
	} else if err := d.tracker.Save(); err != nil {
		d.log.Error("progress save failed", slog.String("error", err.Error()))
	}

	if res.Cancelled {
		return res, ctx.Err()
	}
	return res, nil
}

// defineWord walks the service chain and returns the first hit along
// with the name of the service that answered.
func (d *Definer) defineWord(ctx context.Context, word string, stats *Stats) (*provider.Result, string) {
	for si, p := range d.providers {
		res, ok := d.tryService(ctx, p, word, stats)
		if ok {
			return res, p.Name()
		}
		if ctx.Err() != nil {
			return nil, ""
		}
		if si < len(d.providers)-1 {
			if err := d.sleep(ctx, d.lookup.ServiceDelay); err != nil {
				return nil, ""
			}
		}
	}
	return nil, ""
}

// tryService queries one service with bounded retries. Rate-limit
// class errors skip to the next service immediately; transient errors
// back off linearly between attempts.
func (d *Definer) tryService(ctx context.Context, p provider.Definer, word string, stats *Stats) (*provider.Result, bool) {
	for attempt := 1; attempt <= d.lookup.MaxRetries; attempt++ {
		res, err := p.Define(ctx, word)
		if err == nil {
			if res == nil {
				return nil, false // definitive miss for this service
			}
			return res, true
		}

		if errors.Is(err, domain.ErrRateLimited) {
			stats.Error("rate_limited")
			d.log.Warn("service rate limited, skipping",
				slog.String("service", p.Name()),
				slog.String("word", word),
			)
			return nil, false
		}
		if ctx.Err() != nil {
			return nil, false
		}

		stats.Error("transient")
		d.log.Debug("lookup attempt failed",
			slog.String("service", p.Name()),
			slog.String("word", word),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt < d.lookup.MaxRetries {
			if err := d.sleep(ctx, d.lookup.RetryDelay*time.Duration(attempt)); err != nil {
				return nil, false
			}
		}
	}
	return nil, false
}

func (d *Definer) logDryRun(selected []string) {
	preview := selected
	if len(preview) > 10 {
		preview = preview[:10]
	}
	d.log.Info("dry run, no lookups performed",
		slog.Int("selected", len(selected)),
		slog.Any("preview", preview),
	)
}

func (d *Definer) withDefaults(opts Options) Options {
	if opts.Count <= 0 {
		opts.Count = d.cfg.Count
	}
	if opts.Count > d.cfg.MaxCount {
		d.log.Warn("count capped",
			slog.Int("requested", opts.Count),
			slog.Int("max", d.cfg.MaxCount),
		)
		opts.Count = d.cfg.MaxCount
	}
	if opts.Strategy == "" {
		opts.Strategy = d.cfg.Strategy
	}
	if opts.Delay <= 0 {
		opts.Delay = d.cfg.Delay
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = d.cfg.BatchSize
	}
	return opts
}

func (d *Definer) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	timer := d.clock.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
