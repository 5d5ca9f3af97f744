// Package service is the read surface of Delphi: it fetches upstream odds
// (through the snapshot cache and request coalescing), resolves match
// identities and produces consensus and arbitrage views per league.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/XavierBriggs/Delphi/internal/arbitrage"
	"github.com/XavierBriggs/Delphi/internal/consensus"
	"github.com/XavierBriggs/Delphi/internal/identity"
	"github.com/XavierBriggs/Delphi/internal/snapcache"
	"github.com/XavierBriggs/Delphi/pkg/contracts"
	"github.com/XavierBriggs/Delphi/pkg/models"
)

// Service coordinates upstream fetches, caching and aggregation. Concurrent
// callers asking for the same sport and market share a single upstream
// request via singleflight.
type Service struct {
	source     contracts.OddsSource
	cache      contracts.SnapshotCache // nil disables caching
	aggregator *consensus.Aggregator
	flight     singleflight.Group
	now        func() time.Time
	log        *logrus.Entry
}

// New creates a service. cache may be nil, in which case every call reaches
// upstream (still coalesced across concurrent callers).
func New(source contracts.OddsSource, cache contracts.SnapshotCache, aggregator *consensus.Aggregator) *Service {
	return &Service{
		source:     source,
		cache:      cache,
		aggregator: aggregator,
		now:        time.Now,
		log:        logrus.WithField("component", "service"),
	}
}

// GetConsensus returns consensus probabilities for every upcoming match of
// the league commencing within window from now, sorted by commence time.
func (s *Service) GetConsensus(ctx context.Context, league contracts.LeagueModule, window time.Duration, marketKey string, outcomes []models.OutcomeKey) ([]models.MarketConsensus, error) {
	events, err := s.snapshots(ctx, league, marketKey)
	if err != nil {
		return nil, err
	}

	upcoming := s.filterWindow(events, window)

	results := make([]models.MarketConsensus, 0, len(upcoming))
	for _, evt := range upcoming {
		match := identity.Resolve(evt.ProviderEventID, evt.HomeTeam, evt.AwayTeam, evt.CommenceTime)
		results = append(results, s.aggregator.Aggregate(match, marketKey, outcomes, evt.Snapshots))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Match.CommenceTime.Before(results[j].Match.CommenceTime)
	})
	return results, nil
}

// GetArbitrage scans the league's upcoming matches for guaranteed-margin
// stake splits across best available prices. Matches without an edge carry
// a nil Opportunity.
func (s *Service) GetArbitrage(ctx context.Context, league contracts.LeagueModule, window time.Duration, marketKey string, outcomes []models.OutcomeKey, totalStake float64) ([]models.MatchArbitrage, error) {
	markets, err := s.GetConsensus(ctx, league, window, marketKey, outcomes)
	if err != nil {
		return nil, err
	}

	results := make([]models.MatchArbitrage, 0, len(markets))
	for _, mc := range markets {
		best := arbitrage.BestPrices(mc)
		results = append(results, models.MatchArbitrage{
			Match:       mc.Match,
			Opportunity: arbitrage.Detect(mc.Match, marketKey, outcomes, best, totalStake),
		})
	}
	return results, nil
}

// snapshots returns the current event snapshots for the league's sport and
// market, consulting the cache first. Concurrent callers for the same key
// are collapsed into one upstream fetch.
func (s *Service) snapshots(ctx context.Context, league contracts.LeagueModule, marketKey string) ([]models.EventQuotes, error) {
	key := snapcache.Key(league.SportKey(), marketKey)

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			events, ok, err := s.cache.Get(ctx, key)
			if err != nil {
				// A broken cache degrades to an upstream fetch.
				s.log.WithError(err).WithField("key", key).Warn("snapshot cache read failed")
			} else if ok {
				return events, nil
			}
		}

		events, err := s.source.FetchOdds(ctx, &models.FetchOptions{
			Sport:   league.SportKey(),
			Regions: league.Regions(),
			Markets: []string{marketKey},
		})
		if err != nil {
			return nil, fmt.Errorf("fetch odds for %s: %w", league.LeagueCode(), err)
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, events); err != nil {
				s.log.WithError(err).WithField("key", key).Warn("snapshot cache write failed")
			}
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.EventQuotes), nil
}

// filterWindow keeps events commencing after now and within window of now.
func (s *Service) filterWindow(events []models.EventQuotes, window time.Duration) []models.EventQuotes {
	now := s.now()
	cutoff := now.Add(window)

	upcoming := make([]models.EventQuotes, 0, len(events))
	for _, evt := range events {
		if evt.CommenceTime.After(now) && !evt.CommenceTime.After(cutoff) {
			upcoming = append(upcoming, evt)
		}
	}
	return upcoming
}
