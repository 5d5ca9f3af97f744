package config

import "time"

const (
	defaultKeyCooldown     = time.Hour
	defaultRecoverInterval = 5 * time.Minute
	defaultRequestTimeout  = 15 * time.Second
	defaultMaxRetries      = 3
	defaultBackoffBase     = 500 * time.Millisecond
	defaultBackoffMax      = 8 * time.Second
	defaultFuzzyThreshold  = 85
	defaultSnapshotTTL     = 60 * time.Second
	defaultMatchWindow     = 48 * time.Hour
	defaultTotalStake      = 100.0
	defaultDedupeWindow    = 30 * time.Minute
	defaultLogLevel        = "info"
)

// applyDefaults fills in zero values with sane defaults.
func (c *Config) applyDefaults() {
	if c.KeyCooldown == 0 {
		c.KeyCooldown = defaultKeyCooldown
	}
	if c.RecoverInterval == 0 {
		c.RecoverInterval = defaultRecoverInterval
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.BackoffMax == 0 {
		c.BackoffMax = defaultBackoffMax
	}
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = defaultFuzzyThreshold
	}
	if c.SnapshotTTL == 0 {
		c.SnapshotTTL = defaultSnapshotTTL
	}
	if c.MatchWindow == 0 {
		c.MatchWindow = defaultMatchWindow
	}
	if c.TotalStake == 0 {
		c.TotalStake = defaultTotalStake
	}
	if c.DedupeWindow == 0 {
		c.DedupeWindow = defaultDedupeWindow
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
