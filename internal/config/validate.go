package config

import (
	"fmt"
	"slices"
)

var validStrategies = []string{"smart", "random", "sequential", "short", "long"}

// Validate checks cross-field constraints that tags cannot express.
func (c *Config) Validate() error {
	if c.Fetch.URL == "" {
		return fmt.Errorf("fetch.url must not be empty")
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("fetch.retry_attempts must be >= 1, got %d", c.Fetch.RetryAttempts)
	}
	if c.Fetch.ShrinkThreshold <= 0 || c.Fetch.ShrinkThreshold > 1 {
		return fmt.Errorf("fetch.shrink_threshold must be in (0, 1], got %g", c.Fetch.ShrinkThreshold)
	}
	if c.Lookup.MaxRetries < 1 {
		return fmt.Errorf("lookup.max_retries must be >= 1, got %d", c.Lookup.MaxRetries)
	}
	if !slices.Contains(validStrategies, c.Define.Strategy) {
		return fmt.Errorf("define.strategy %q is not one of %v", c.Define.Strategy, validStrategies)
	}
	if c.Define.Count < 1 {
		return fmt.Errorf("define.count must be >= 1, got %d", c.Define.Count)
	}
	if c.Define.MaxCount < c.Define.Count {
		return fmt.Errorf("define.max_count (%d) must be >= define.count (%d)", c.Define.MaxCount, c.Define.Count)
	}
	if c.Define.BatchSize < 1 {
		return fmt.Errorf("define.batch_size must be >= 1, got %d", c.Define.BatchSize)
	}
	return nil
}
