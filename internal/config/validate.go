package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values that would break at runtime.
func (c *Config) Validate() error {
	if len(c.APIKeys) == 0 {
		return errors.New("at least one API key is required (set ODDS_API_KEYS or ODDS_API_KEY_1)")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold must be within [0, 100], got %d", c.FuzzyThreshold)
	}
	if c.TotalStake <= 0 {
		return fmt.Errorf("total stake must be positive, got %v", c.TotalStake)
	}
	if c.BackoffBase > c.BackoffMax {
		return fmt.Errorf("backoff base %v exceeds backoff max %v", c.BackoffBase, c.BackoffMax)
	}
	if c.MatchWindow <= 0 {
		return fmt.Errorf("match window must be positive, got %v", c.MatchWindow)
	}
	return nil
}
