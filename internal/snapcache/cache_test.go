//go:build integration

// Integration tests require a local Redis:
//   go test -tags=integration ./internal/snapcache/
package snapcache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // test database
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func sampleEvents() []models.EventQuotes {
	return []models.EventQuotes{
		{
			ProviderEventID: "evt-1",
			SportKey:        "soccer_epl",
			HomeTeam:        "Arsenal",
			AwayTeam:        "Chelsea",
			CommenceTime:    time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC),
			Snapshots: []models.MarketSnapshot{
				{
					BookKey:   "bet365",
					MarketKey: "h2h",
					Quotes:    []models.Quote{{OutcomeLabel: "Arsenal", Price: 2.1}},
				},
			},
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(setupRedis(t), time.Minute)
	ctx := context.Background()
	key := Key("soccer_epl", "h2h")

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, sampleEvents()))

	events, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ProviderEventID)
	assert.Equal(t, 2.1, events[0].Snapshots[0].Quotes[0].Price)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(setupRedis(t), 50*time.Millisecond)
	ctx := context.Background()
	key := Key("soccer_epl", "h2h")

	require.NoError(t, cache.Set(ctx, key, sampleEvents()))
	time.Sleep(100 * time.Millisecond)

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	client := setupRedis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()
	key := Key("soccer_epl", "h2h")

	require.NoError(t, client.Set(ctx, key, "not json", time.Minute).Err())

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
