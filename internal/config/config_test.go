package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ODDS_API_KEYS", "key-a")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"key-a"}, cfg.APIKeys)
	assert.Equal(t, time.Hour, cfg.KeyCooldown)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 85, cfg.FuzzyThreshold)
	assert.Equal(t, 48*time.Hour, cfg.MatchWindow)
	assert.Equal(t, 100.0, cfg.TotalStake)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadCommaSeparatedKeys(t *testing.T) {
	t.Setenv("ODDS_API_KEYS", "key-a, key-b ,,key-c")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, cfg.APIKeys)
}

func TestLoadNumberedKeys(t *testing.T) {
	t.Setenv("ODDS_API_KEYS", "")
	t.Setenv("ODDS_API_KEY_1", "first")
	t.Setenv("ODDS_API_KEY_2", "second")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, cfg.APIKeys)
}

func TestLoadNoKeysFails(t *testing.T) {
	t.Setenv("ODDS_API_KEYS", "")
	t.Setenv("ODDS_API_KEY_1", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ODDS_API_KEYS", "k")
	t.Setenv("DELPHI_MATCH_WINDOW", "24h")
	t.Setenv("DELPHI_FUZZY_THRESHOLD", "90")
	t.Setenv("DELPHI_TOTAL_STAKE", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.MatchWindow)
	assert.Equal(t, 90, cfg.FuzzyThreshold)
	assert.Equal(t, 250.0, cfg.TotalStake)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		c := &Config{APIKeys: []string{"k"}}
		c.applyDefaults()
		return c
	}

	c := base()
	c.FuzzyThreshold = 120
	assert.Error(t, c.Validate())

	c = base()
	c.TotalStake = -1
	assert.Error(t, c.Validate())

	c = base()
	c.BackoffBase = 10 * time.Second
	c.BackoffMax = time.Second
	assert.Error(t, c.Validate())
}
