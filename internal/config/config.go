// Package config loads Delphi's runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the full runtime configuration.
type Config struct {
	// Upstream credentials. Loaded from ODDS_API_KEYS (comma-separated) or
	// ODDS_API_KEY_1..N.
	APIKeys []string

	// How long an invalidated key stays quarantined before recovery retries
	// it, and how often the recovery sweep runs.
	KeyCooldown     time.Duration
	RecoverInterval time.Duration

	// Upstream HTTP behavior.
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffMax     time.Duration

	// Outcome name matching threshold (0-100).
	FuzzyThreshold int

	// Snapshot cache TTL and the look-ahead window for upcoming matches.
	SnapshotTTL time.Duration
	MatchWindow time.Duration

	// Total stake used when sizing arbitrage legs, and how long a match's
	// recorded opportunity is deduplicated.
	TotalStake   float64
	DedupeWindow time.Duration

	// Infrastructure. RedisAddr and PostgresDSN are optional: empty values
	// disable the snapshot cache and the opportunity writer respectively.
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string

	LogLevel string
}

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		APIKeys:         loadAPIKeys(),
		KeyCooldown:     envDuration("DELPHI_KEY_COOLDOWN"),
		RecoverInterval: envDuration("DELPHI_KEY_RECOVER_INTERVAL"),
		RequestTimeout:  envDuration("DELPHI_REQUEST_TIMEOUT"),
		MaxRetries:      envInt("DELPHI_MAX_RETRIES"),
		BackoffBase:     envDuration("DELPHI_BACKOFF_BASE"),
		BackoffMax:      envDuration("DELPHI_BACKOFF_MAX"),
		FuzzyThreshold:  envInt("DELPHI_FUZZY_THRESHOLD"),
		SnapshotTTL:     envDuration("DELPHI_SNAPSHOT_TTL"),
		MatchWindow:     envDuration("DELPHI_MATCH_WINDOW"),
		TotalStake:      envFloat("DELPHI_TOTAL_STAKE"),
		DedupeWindow:    envDuration("DELPHI_DEDUPE_WINDOW"),
		RedisAddr:       os.Getenv("DELPHI_REDIS_ADDR"),
		RedisPassword:   os.Getenv("DELPHI_REDIS_PASSWORD"),
		PostgresDSN:     os.Getenv("DELPHI_POSTGRES_DSN"),
		LogLevel:        os.Getenv("DELPHI_LOG_LEVEL"),
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// loadAPIKeys reads ODDS_API_KEYS (comma-separated) first, then falls back
// to numbered ODDS_API_KEY_1..N variables.
func loadAPIKeys() []string {
	if raw := os.Getenv("ODDS_API_KEYS"); raw != "" {
		parts := strings.Split(raw, ",")
		keys := make([]string, 0, len(parts))
		for _, p := range parts {
			if k := strings.TrimSpace(p); k != "" {
				keys = append(keys, k)
			}
		}
		return keys
	}

	var keys []string
	for i := 1; ; i++ {
		key := strings.TrimSpace(os.Getenv(fmt.Sprintf("ODDS_API_KEY_%d", i)))
		if key == "" {
			break
		}
		keys = append(keys, key)
	}
	return keys
}

func envDuration(name string) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func envInt(name string) int {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func envFloat(name string) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
