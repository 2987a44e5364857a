package definer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gamedict/internal/adapter/dictxml"
	"github.com/heartmarshall/gamedict/internal/adapter/progress"
	"github.com/heartmarshall/gamedict/internal/config"
	"github.com/heartmarshall/gamedict/internal/domain"
	"github.com/heartmarshall/gamedict/internal/provider"
)

// fakeService answers from a fixed map. failFirst makes the first
// failFirst calls per word return a transient error.
type fakeService struct {
	name      string
	defs      map[string]*provider.Result
	rateLimit bool
	failFirst int

	calls    []string
	attempts map[string]int
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Define(_ context.Context, word string) (*provider.Result, error) {
	f.calls = append(f.calls, word)
	if f.rateLimit {
		return nil, fmt.Errorf("%s: quota exhausted: %w", f.name, domain.ErrRateLimited)
	}
	if f.attempts == nil {
		f.attempts = make(map[string]int)
	}
	f.attempts[word]++
	if f.attempts[word] <= f.failFirst {
		return nil, fmt.Errorf("%s: temporary failure", f.name)
	}
	if res, ok := f.defs[word]; ok {
		return res, nil
	}
	return nil, nil
}

func def(word, definition, pos string) *provider.Result {
	return &provider.Result{Word: word, Definition: definition, PartOfSpeech: pos}
}

type fixture struct {
	definer *Definer
	dict    *dictxml.Store
	tracker *progress.Tracker
}

func newFixture(t *testing.T, words []string, providers ...provider.Definer) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dict := dictxml.New(filepath.Join(dir, "dictionary.xml"))
	doc := dictxml.Build(words, nil)
	_, err := dict.Save(doc, false)
	require.NoError(t, err)

	clock := clockwork.NewRealClock()
	tracker := progress.New(filepath.Join(dir, "progress.json"), time.Hour, clock, logger)

	cfg := config.DefineConfig{
		Count:     100,
		MaxCount:  1000,
		Strategy:  StrategySequential,
		BatchSize: 100,
	}
	lookup := config.LookupConfig{
		MaxRetries: 3,
	}

	return &fixture{
		definer: New(logger, cfg, lookup, dict, tracker, providers, clock, rand.New(rand.NewSource(1))),
		dict:    dict,
		tracker: tracker,
	}
}

func TestRunDefinesSelectedWords(t *testing.T) {
	svc := &fakeService{
		name: "free_dict",
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple", "zebra", "quartz"}, svc)

	res, err := fx.definer.Run(context.Background(), Options{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Found)

	doc, err := fx.dict.Load()
	require.NoError(t, err)
	rec, ok := doc.Record("apple")
	require.True(t, ok)
	assert.Equal(t, "A round fruit", rec.Definition)
	assert.Equal(t, "noun", rec.PartOfSpeech)
	assert.Equal(t, []string{"zebra", "quartz"}, doc.Undefined())

	assert.NotContains(t, svc.calls, "quartz", "only selected words hit the services")
}

func TestRunFallbackChain(t *testing.T) {
	first := &fakeService{name: "free_dict"}
	second := &fakeService{
		name: "wordsapi",
		defs: map[string]*provider.Result{
			"zebra": def("zebra", "A striped animal", "noun"),
		},
	}
	fx := newFixture(t, []string{"zebra"}, first, second)

	res, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, []string{"zebra"}, first.calls, "primary service is consulted first")
	assert.Equal(t, []string{"zebra"}, second.calls)
}

func TestRunRateLimitSkipsToNextService(t *testing.T) {
	limited := &fakeService{name: "free_dict", rateLimit: true}
	backup := &fakeService{
		name: "wordnik",
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple"}, limited, backup)

	res, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Len(t, limited.calls, 1, "rate limit must not be retried")
}

func TestRunTransientErrorRetried(t *testing.T) {
	flaky := &fakeService{
		name:      "free_dict",
		failFirst: 2,
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple"}, flaky)

	res, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Len(t, flaky.calls, 3)
}

func TestRunDryRun(t *testing.T) {
	svc := &fakeService{
		name: "free_dict",
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple", "zebra"}, svc)

	res, err := fx.definer.Run(context.Background(), Options{Count: 2, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Selected)
	assert.Zero(t, res.Processed)
	assert.Empty(t, svc.calls, "dry run must not touch the network")

	doc, err := fx.dict.Load()
	require.NoError(t, err)
	assert.Zero(t, doc.DefinedCount())
}

func TestRunResumeSkipsProcessedWords(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra", "quartz"}, svc)

	_, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, svc.calls)

	svc.calls = nil
	_, err = fx.definer.Run(context.Background(), Options{Count: 1, Resume: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra"}, svc.calls, "resume must skip already processed words")
}

func TestRunWithoutResumeStartsFresh(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra"}, svc)

	_, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)

	svc.calls = nil
	_, err = fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, svc.calls, "a fresh run starts from the top")
}

func TestRunClearsProgressWhenPoolExhausted(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra"}, svc)

	res, err := fx.definer.Run(context.Background(), Options{Count: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Zero(t, fx.tracker.Load(), "finished pool must clear the progress file")
}

func TestRunAllDefined(t *testing.T) {
	svc := &fakeService{
		name: "free_dict",
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple"}, svc)

	_, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)

	svc.calls = nil
	res, err := fx.definer.Run(context.Background(), Options{Count: 1})
	require.NoError(t, err)
	assert.Zero(t, res.Selected)
	assert.Empty(t, svc.calls)
}

func TestRunOutputRedirect(t *testing.T) {
	svc := &fakeService{
		name: "free_dict",
		defs: map[string]*provider.Result{
			"apple": def("apple", "A round fruit", "noun"),
		},
	}
	fx := newFixture(t, []string{"apple"}, svc)

	outPath := filepath.Join(t.TempDir(), "enriched.xml")
	res, err := fx.definer.Run(context.Background(), Options{Count: 1, Output: outPath})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)

	// The input dictionary stays untouched.
	doc, err := fx.dict.Load()
	require.NoError(t, err)
	assert.Zero(t, doc.DefinedCount())

	out, err := dictxml.New(outPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, out.DefinedCount())
}

func TestRunMissingDictionary(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewRealClock()
	d := New(
		logger,
		config.DefineConfig{Count: 1, MaxCount: 10, Strategy: StrategySequential, BatchSize: 10},
		config.LookupConfig{MaxRetries: 1},
		dictxml.New(filepath.Join(dir, "missing.xml")),
		progress.New(filepath.Join(dir, "progress.json"), time.Hour, clock, logger),
		nil,
		clock,
		rand.New(rand.NewSource(1)),
	)

	_, err := d.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run convert first")
}

func TestRunCancelledContext(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra"}, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := fx.definer.Run(ctx, Options{Count: 2})
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Cancelled)
	assert.Empty(t, svc.calls)
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra"}, svc)

	_, err := fx.definer.Run(context.Background(), Options{Strategy: "alphabetical", DryRun: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
	assert.Empty(t, svc.calls)
}

func TestRunCountCappedAtMax(t *testing.T) {
	svc := &fakeService{name: "free_dict"}
	fx := newFixture(t, []string{"apple", "zebra", "quartz"}, svc)
	fx.definer.cfg.MaxCount = 2

	res, err := fx.definer.Run(context.Background(), Options{Count: 50})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Selected)
}
