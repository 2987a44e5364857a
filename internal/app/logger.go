package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/gamedict/internal/config"
)

// NewLogger creates a *slog.Logger based on the provided LogConfig and
// sets it as the default logger via slog.SetDefault.
//
// Format "json" produces structured JSON output, "text" human-readable
// output. Level is one of: debug, info, warn, error (case-insensitive);
// defaults to info. Console output goes to os.Stderr.
//
// If logFile is non-empty, records are additionally appended there as
// pipe-delimited LEVEL|timestamp|message lines; the file's parent
// directory is created if needed. Every record carries a run_id so
// entries from different runs can be told apart in the shared log.
func NewLogger(cfg config.LogConfig, logFile string) (*slog.Logger, error) {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		console = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	handler := console
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", logFile, err)
		}
		handler = teeHandler{console, &pipeHandler{w: f, level: level}}
	}

	logger := slog.New(handler).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	return logger, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
