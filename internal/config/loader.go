package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// defaultPath is tried when GAMEDICT_CONFIG is not set.
const defaultPath = "config.yaml"

// Load builds the pipeline configuration: YAML file, then environment
// overrides, then the env-default tags. A file named by GAMEDICT_CONFIG
// must exist; without the variable, config.yaml in the working
// directory is picked up when present and otherwise the configuration
// comes from environment and defaults alone, so a bare checkout runs
// with no file at all.
func Load() (*Config, error) {
	var cfg Config

	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// resolvePath picks the config file. Empty means env + defaults only.
func resolvePath() (string, error) {
	if path, ok := os.LookupEnv("GAMEDICT_CONFIG"); ok {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config: GAMEDICT_CONFIG points at %s: %w", path, err)
		}
		return path, nil
	}
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, nil
	}
	return "", nil
}
