package contracts

import (
	"context"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

// OddsSource fetches raw bookmaker snapshots from an upstream odds provider.
// Implementations own credential rotation, retry, and rate-limit handling;
// callers see only typed errors (credentials exhausted vs upstream
// unavailable) once retries are spent.
type OddsSource interface {
	// FetchOdds retrieves every event with bookmaker quotes for the given
	// sport, regions, and markets. Individual malformed entries are skipped,
	// not fatal to the batch.
	FetchOdds(ctx context.Context, opts *models.FetchOptions) ([]models.EventQuotes, error)

	// RateLimits returns the provider quota observed on the last response.
	RateLimits() models.RateLimits
}

// SnapshotCache is a short-TTL cache for upstream snapshot batches, keyed by
// (sport, market). Get reports a miss with ok=false; cache corruption is
// treated as a miss, never an error surfaced to the request path.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (events []models.EventQuotes, ok bool, err error)
	Set(ctx context.Context, key string, events []models.EventQuotes) error
}
