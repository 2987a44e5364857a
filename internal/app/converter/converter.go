// Package converter rebuilds the XML dictionary from the flat word
// list. Definitions already present in the dictionary survive the
// rebuild; a corrupt dictionary file is logged and replaced rather
// than aborting the run.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/gamedict/internal/adapter/dictxml"
	"github.com/heartmarshall/gamedict/internal/adapter/wordlist"
	"github.com/heartmarshall/gamedict/internal/domain"
)

// Result summarizes a completed conversion.
type Result struct {
	TotalWords int
	Preserved  int // definitions carried over from the previous file
}

// Converter turns the word list into the XML dictionary.
type Converter struct {
	log   *slog.Logger
	words *wordlist.Store
	dict  *dictxml.Store
}

func New(logger *slog.Logger, words *wordlist.Store, dict *dictxml.Store) *Converter {
	return &Converter{
		log:   logger.With("op", "convert"),
		words: words,
		dict:  dict,
	}
}

// Run loads the word list, merges in definitions from any existing
// dictionary and writes the result. The context is accepted for
// interface symmetry with the other pipeline stages; conversion is
// local file work and checks it only between phases.
func (c *Converter) Run(ctx context.Context) (*Result, error) {
	words, err := c.words.Load()
	if err != nil {
		return nil, fmt.Errorf("converter: load word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("converter: word list %s is missing or empty", c.words.Path)
	}
	c.log.Info("loaded word list", slog.Int("count", len(words)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prior := c.loadPrior()

	doc := dictxml.Build(words, prior)
	if _, err := c.dict.Save(doc, false); err != nil {
		return nil, fmt.Errorf("converter: save dictionary: %w", err)
	}

	res := &Result{TotalWords: doc.Len(), Preserved: doc.DefinedCount()}
	c.log.Info("dictionary written",
		slog.Int("words", res.TotalWords),
		slog.Int("preserved_definitions", res.Preserved),
	)
	return res, nil
}

// loadPrior reads the existing dictionary's definitions. Missing file
// means a first run; a parse failure is not fatal because the
// dictionary can be rebuilt from scratch.
func (c *Converter) loadPrior() map[string]domain.WordRecord {
	doc, err := c.dict.Load()
	switch {
	case err == nil:
		defs := doc.Definitions()
		if len(defs) > 0 {
			c.log.Info("preserving existing definitions", slog.Int("count", len(defs)))
		}
		return defs
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, domain.ErrParse):
		c.log.Warn("existing dictionary is malformed, rebuilding from scratch",
			slog.String("error", err.Error()))
		return nil
	default:
		c.log.Warn("could not read existing dictionary",
			slog.String("error", err.Error()))
		return nil
	}
}
