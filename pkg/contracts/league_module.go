package contracts

import "time"

// LeagueModule describes one competition Delphi aggregates. Modules carry the
// upstream sport key plus the regions and markets to request, so new
// competitions can be registered without touching the pipeline.
type LeagueModule interface {
	// LeagueCode returns the short competition code (e.g. "PL").
	LeagueCode() string

	// SportKey returns the upstream provider's sport key (e.g. "soccer_epl").
	SportKey() string

	// DisplayName returns the human-readable name (e.g. "Premier League").
	DisplayName() string

	// Regions returns the bookmaker regions to request.
	Regions() []string

	// Markets returns the market keys to request.
	Markets() []string

	// PollInterval returns how often the scheduler refreshes this league.
	PollInterval() time.Duration
}
