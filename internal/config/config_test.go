package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Define.Count != 100 {
		t.Errorf("Define.Count = %d, want 100", cfg.Define.Count)
	}
	if cfg.Define.Strategy != "smart" {
		t.Errorf("Define.Strategy = %q, want smart", cfg.Define.Strategy)
	}
	if cfg.Fetch.RetryAttempts != 3 {
		t.Errorf("Fetch.RetryAttempts = %d, want 3", cfg.Fetch.RetryAttempts)
	}
	if cfg.Paths.DictFile != "data/dictionary.xml" {
		t.Errorf("Paths.DictFile = %q", cfg.Paths.DictFile)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DEFINE_STRATEGY", "sequential")
	t.Setenv("DEFINE_COUNT", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Define.Strategy != "sequential" {
		t.Errorf("Define.Strategy = %q, want sequential", cfg.Define.Strategy)
	}
	if cfg.Define.Count != 250 {
		t.Errorf("Define.Count = %d, want 250", cfg.Define.Count)
	}
}

func TestValidateRejectsBadStrategy(t *testing.T) {
	t.Setenv("DEFINE_STRATEGY", "alphabetical")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestValidateRejectsBadShrinkThreshold(t *testing.T) {
	t.Setenv("FETCH_SHRINK_THRESHOLD", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for shrink threshold > 1")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("GAMEDICT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("define:\n  count: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GAMEDICT_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Define.Count != 7 {
		t.Errorf("Define.Count = %d, want 7 from file", cfg.Define.Count)
	}
	if cfg.Define.Strategy != "smart" {
		t.Errorf("Define.Strategy = %q, want default smart", cfg.Define.Strategy)
	}
}
