// Package registry tracks the competitions the pipeline polls.
package registry

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/Delphi/pkg/contracts"
)

// LeagueRegistry holds the league modules available to the scheduler and
// service layer, keyed by short competition code. Registration happens once
// at startup; lookups are safe from any goroutine.
type LeagueRegistry struct {
	leagues map[string]contracts.LeagueModule
	mu      sync.RWMutex
}

func NewLeagueRegistry() *LeagueRegistry {
	return &LeagueRegistry{
		leagues: make(map[string]contracts.LeagueModule),
	}
}

// Register adds a league. Codes must be unique; a second registration under
// the same code is an error rather than a silent replacement.
func (r *LeagueRegistry) Register(league contracts.LeagueModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := league.LeagueCode()
	if _, exists := r.leagues[code]; exists {
		return fmt.Errorf("league %s is already registered", code)
	}

	r.leagues[code] = league
	return nil
}

// Get looks up a league by its short code (e.g. "PL").
func (r *LeagueRegistry) Get(code string) (contracts.LeagueModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	league, exists := r.leagues[code]
	return league, exists
}

// GetAll snapshots the registered leagues, in no particular order.
func (r *LeagueRegistry) GetAll() []contracts.LeagueModule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leagues := make([]contracts.LeagueModule, 0, len(r.leagues))
	for _, league := range r.leagues {
		leagues = append(leagues, league)
	}
	return leagues
}

func (r *LeagueRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.leagues)
}
