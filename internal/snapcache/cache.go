// Package snapcache is a short-TTL Redis cache for upstream odds snapshots.
// It exists to absorb repeated reads between poll intervals, not as a store
// of record: a cold or unreachable cache just means another upstream fetch.
package snapcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Delphi/pkg/contracts"
	"github.com/XavierBriggs/Delphi/pkg/models"
)

// Cache stores fetched event snapshots in Redis under a per-sport,
// per-market key.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ contracts.SnapshotCache = (*Cache)(nil)

// NewCache creates a snapshot cache with the given TTL.
func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Key builds the cache key for one sport and market combination.
// Format: snapshots:current:{sport_key}:{market_key}
func Key(sportKey, marketKey string) string {
	return fmt.Sprintf("snapshots:current:%s:%s", sportKey, marketKey)
}

// Get returns the cached events for key. A missing key or a corrupt entry
// is reported as a miss, not an error; only Redis transport failures are.
func (c *Cache) Get(ctx context.Context, key string) ([]models.EventQuotes, bool, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var events []models.EventQuotes
	if err := json.Unmarshal(data, &events); err != nil {
		// Corrupt entry, treat as a miss and let the caller refetch.
		return nil, false, nil
	}

	return events, true, nil
}

// Set stores events under key with the cache's TTL.
func (c *Cache) Set(ctx context.Context, key string, events []models.EventQuotes) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
