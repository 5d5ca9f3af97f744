// Package soccer defines the competitions Delphi aggregates and their
// upstream request parameters.
package soccer

import (
	"time"

	"github.com/XavierBriggs/Delphi/pkg/contracts"
)

// League implements the LeagueModule interface for one soccer competition.
type League struct {
	code         string
	sportKey     string
	displayName  string
	regions      []string
	markets      []string
	pollInterval time.Duration
}

var _ contracts.LeagueModule = (*League)(nil)

// LeagueCode returns the short competition code (e.g. "PL").
func (l *League) LeagueCode() string {
	return l.code
}

// SportKey returns the upstream provider's sport key.
func (l *League) SportKey() string {
	return l.sportKey
}

// DisplayName returns the human-readable competition name.
func (l *League) DisplayName() string {
	return l.displayName
}

// Regions returns the bookmaker regions to request.
func (l *League) Regions() []string {
	return l.regions
}

// Markets returns the market keys to request.
func (l *League) Markets() []string {
	return l.markets
}

// PollInterval returns how often the scheduler refreshes this league.
func (l *League) PollInterval() time.Duration {
	return l.pollInterval
}

// NewLeague creates a league module with the default regions, markets and
// poll interval.
func NewLeague(code, sportKey, displayName string) *League {
	return &League{
		code:         code,
		sportKey:     sportKey,
		displayName:  displayName,
		regions:      defaultRegions(),
		markets:      []string{MarketMatchResult},
		pollInterval: defaultPollInterval,
	}
}

const defaultPollInterval = 5 * time.Minute

func defaultRegions() []string {
	return []string{"uk", "eu"}
}

// Leagues returns the supported competitions keyed by short code.
func Leagues() []*League {
	return []*League{
		NewLeague("PL", "soccer_epl", "Premier League"),
		NewLeague("PD", "soccer_spain_la_liga", "La Liga"),
		NewLeague("SA", "soccer_italy_serie_a", "Serie A"),
		NewLeague("BL1", "soccer_germany_bundesliga", "Bundesliga"),
		NewLeague("FL1", "soccer_france_ligue_one", "Ligue 1"),
		NewLeague("CL", "soccer_uefa_champs_league", "Champions League"),
	}
}
