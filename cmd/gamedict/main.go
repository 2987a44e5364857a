// Command gamedict builds and enriches an XML dictionary for word
// games. It downloads the ENABLE word list, converts it to the XML
// dictionary format and fills in definitions from a chain of external
// lookup services.
//
// Subcommands:
//
//	fetch    download the word list (with backup and diff)
//	convert  rebuild dictionary.xml from the word list
//	define   fetch definitions for undefined words
//	all      fetch, convert and define in sequence
//
// Run without arguments for an interactive menu.
//
// Exit codes: 0 = success, 1 = error, 130 = interrupted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/gamedict/internal/adapter/dictxml"
	"github.com/heartmarshall/gamedict/internal/adapter/progress"
	"github.com/heartmarshall/gamedict/internal/adapter/provider/freedict"
	"github.com/heartmarshall/gamedict/internal/adapter/provider/wordnik"
	"github.com/heartmarshall/gamedict/internal/adapter/provider/wordsapi"
	"github.com/heartmarshall/gamedict/internal/adapter/wordlist"
	"github.com/heartmarshall/gamedict/internal/app"
	"github.com/heartmarshall/gamedict/internal/app/converter"
	"github.com/heartmarshall/gamedict/internal/app/definer"
	"github.com/heartmarshall/gamedict/internal/app/fetcher"
	"github.com/heartmarshall/gamedict/internal/config"
	"github.com/heartmarshall/gamedict/internal/provider"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		return exitError
	}

	logger, err := app.NewLogger(cfg.Log, cfg.Paths.LogFile)
	if err != nil {
		log.Printf("init logger: %v", err)
		return exitError
	}

	logger.Debug("starting", slog.String("version", app.BuildVersion()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 0 {
		return interactive(ctx, logger, cfg)
	}
	return execute(ctx, logger, cfg, args[0], args[1:])
}

// interactive loops the menu until the user quits or the process is
// interrupted. A failed command is reported and the menu comes back.
func interactive(ctx context.Context, logger *slog.Logger, cfg *config.Config) int {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		cmd := menu(scanner, os.Stdout)
		if cmd == "" {
			return exitOK
		}
		if code := execute(ctx, logger, cfg, cmd, nil); code == exitInterrupted {
			return code
		}
		fmt.Println()
	}
}

func execute(ctx context.Context, logger *slog.Logger, cfg *config.Config, cmd string, args []string) int {
	var err error
	switch cmd {
	case "fetch":
		err = runFetch(ctx, logger, cfg)
	case "convert":
		err = runConvert(ctx, logger, cfg)
	case "define":
		err = runDefine(ctx, logger, cfg, args)
	case "all":
		err = runAll(ctx, logger, cfg, args)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage(os.Stderr)
		return exitError
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted by user")
		return exitInterrupted
	default:
		logger.Error("command failed",
			slog.String("command", cmd),
			slog.String("error", err.Error()),
		)
		return exitError
	}
}

func usage(w *os.File) {
	fmt.Fprint(w, `Usage: gamedict <command> [flags]

Commands:
  fetch    download the word list from the configured source
  convert  rebuild the XML dictionary from the word list
  define   fetch definitions for undefined words
  all      fetch, convert and define in sequence
  help     print this help

Run "gamedict define -h" for the define flags.
`)
}

// menu shows the interactive picker used when no subcommand is given.
// Returns the chosen command, or "" to quit.
func menu(scanner *bufio.Scanner, out *os.File) string {
	fmt.Fprint(out, `gamedict

  1) fetch    download the word list
  2) convert  rebuild the XML dictionary
  3) define   fetch missing definitions
  4) all      run the full pipeline
  q) quit

> `)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "1", "fetch":
			return "fetch"
		case "2", "convert":
			return "convert"
		case "3", "define":
			return "define"
		case "4", "all":
			return "all"
		case "q", "quit", "exit", "0":
			return ""
		}
		fmt.Fprint(out, "> ")
	}
	return ""
}

// confirmStdin asks a yes/no question on the terminal.
func confirmStdin(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func wordStore(cfg *config.Config) *wordlist.Store {
	return wordlist.New(cfg.Paths.WordsFile, cfg.Paths.BackupFile)
}

func runFetch(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	f := fetcher.New(logger, cfg.Fetch, wordStore(cfg), confirmStdin)
	res, err := f.Run(ctx)
	if err != nil {
		return err
	}
	if res.Cancelled {
		fmt.Println("Fetch cancelled.")
		return nil
	}
	fmt.Printf("Word list: %d words (%d added, %d removed)\n",
		res.TotalWords, res.Added, res.Removed)
	return nil
}

func runConvert(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	c := converter.New(logger, wordStore(cfg), dictxml.New(cfg.Paths.DictFile))
	res, err := c.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Dictionary: %d words, %d definitions preserved\n",
		res.TotalWords, res.Preserved)
	return nil
}

func runDefine(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	opts, err := parseDefineFlags(cfg, args)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	tracker := progress.New(cfg.Paths.ProgressFile, cfg.Define.SaveInterval, clock, logger)

	providers := buildProviders(logger, cfg.Lookup)
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	logger.Info("lookup services", slog.Any("chain", names))

	d := definer.New(
		logger,
		cfg.Define,
		cfg.Lookup,
		dictxml.New(cfg.Paths.DictFile),
		tracker,
		providers,
		clock,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	res, err := d.Run(ctx, opts)
	if res != nil && res.Processed > 0 {
		fmt.Printf("Defined %d of %d words\n", res.Found, res.Processed)
	}
	return err
}

func runAll(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	if err := runFetch(ctx, logger, cfg); err != nil {
		return err
	}
	if err := runConvert(ctx, logger, cfg); err != nil {
		return err
	}
	return runDefine(ctx, logger, cfg, args)
}

func parseDefineFlags(cfg *config.Config, args []string) (definer.Options, error) {
	fs := flag.NewFlagSet("define", flag.ContinueOnError)
	count := fs.Int("count", cfg.Define.Count, "number of words to define")
	strategy := fs.String("strategy", cfg.Define.Strategy,
		"selection strategy: sequential, random, short, long, smart")
	delay := fs.Duration("delay", cfg.Define.Delay, "pause between words")
	batchSize := fs.Int("batch-size", cfg.Define.BatchSize, "words per progress log line")
	dryRun := fs.Bool("dry-run", false, "select words without querying services")
	resume := fs.Bool("resume", false, "skip words processed by a previous run")
	noBackup := fs.Bool("no-backup", false, "skip the dictionary backup before saving")
	output := fs.String("output", "", "write the enriched dictionary to this path instead of in place")

	if err := fs.Parse(args); err != nil {
		return definer.Options{}, err
	}
	if !definer.ValidStrategy(*strategy) {
		return definer.Options{}, fmt.Errorf("unknown strategy %q (valid: %s)",
			*strategy, strings.Join(definer.Strategies, ", "))
	}

	return definer.Options{
		Count:     *count,
		Strategy:  *strategy,
		Delay:     *delay,
		BatchSize: *batchSize,
		DryRun:    *dryRun,
		Resume:    *resume,
		NoBackup:  *noBackup,
		Output:    *output,
	}, nil
}

// buildProviders assembles the lookup chain in fallback order. Keyed
// services are skipped when their key is absent so a bare setup still
// works with the free service.
func buildProviders(logger *slog.Logger, cfg config.LookupConfig) []provider.Definer {
	providers := []provider.Definer{
		freedict.NewProvider(logger, cfg.Timeout),
	}
	if cfg.RapidAPIKey != "" {
		providers = append(providers, wordsapi.NewProvider(cfg.RapidAPIKey, logger, cfg.Timeout))
	} else {
		logger.Info("RAPIDAPI_KEY not set, skipping wordsapi")
	}
	if cfg.WordnikAPIKey != "" {
		providers = append(providers, wordnik.NewProvider(cfg.WordnikAPIKey, logger, cfg.Timeout))
	} else {
		logger.Info("WORDNIK_API_KEY not set, skipping wordnik")
	}
	return providers
}
