// Package scheduler drives the polling loops: one per registered league,
// plus a credential recovery sweep.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/Delphi/internal/credentials"
	"github.com/XavierBriggs/Delphi/internal/registry"
	"github.com/XavierBriggs/Delphi/internal/service"
	"github.com/XavierBriggs/Delphi/internal/writer"
	"github.com/XavierBriggs/Delphi/pkg/contracts"
	"github.com/XavierBriggs/Delphi/sports/soccer"
)

// Options tunes the scheduler's scan behavior.
type Options struct {
	// MatchWindow is how far ahead of now matches are scanned.
	MatchWindow time.Duration

	// TotalStake sizes arbitrage legs.
	TotalStake float64

	// RecoverInterval is how often quarantined keys are re-examined.
	RecoverInterval time.Duration

	// JitterSeconds desynchronizes league poll loops. Zero disables jitter.
	JitterSeconds int
}

// Scheduler orchestrates polling for all registered leagues.
type Scheduler struct {
	svc      *service.Service
	writer   *writer.Writer // nil disables persistence
	pool     *credentials.Pool
	leagues  *registry.LeagueRegistry
	opts     Options
	stopChan chan struct{}
	wg       sync.WaitGroup
	log      *logrus.Entry
}

// NewScheduler creates a polling scheduler. w may be nil, in which case
// detected opportunities are logged but not persisted.
func NewScheduler(svc *service.Service, w *writer.Writer, pool *credentials.Pool, leagues *registry.LeagueRegistry, opts Options) *Scheduler {
	return &Scheduler{
		svc:      svc,
		writer:   w,
		pool:     pool,
		leagues:  leagues,
		opts:     opts,
		stopChan: make(chan struct{}),
		log:      logrus.WithField("component", "scheduler"),
	}
}

// Start begins polling for all registered leagues.
func (s *Scheduler) Start(ctx context.Context) error {
	leagues := s.leagues.GetAll()
	if len(leagues) == 0 {
		return fmt.Errorf("no leagues registered")
	}

	for _, league := range leagues {
		s.wg.Add(1)
		go func(league contracts.LeagueModule) {
			defer s.wg.Done()
			s.pollLeague(ctx, league)
		}(league)

		s.log.WithFields(logrus.Fields{
			"league":   league.LeagueCode(),
			"name":     league.DisplayName(),
			"markets":  league.Markets(),
			"interval": league.PollInterval(),
		}).Info("started league polling")
	}

	if s.opts.RecoverInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.recoverKeys(ctx)
		}()
	}

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// pollLeague scans one league on its configured interval.
func (s *Scheduler) pollLeague(ctx context.Context, league contracts.LeagueModule) {
	// Initial scan immediately.
	if err := s.scan(ctx, league); err != nil {
		s.log.WithError(err).WithField("league", league.LeagueCode()).Error("initial scan failed")
	}

	ticker := time.NewTicker(addJitter(league.PollInterval(), s.opts.JitterSeconds))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.scan(ctx, league); err != nil {
				s.log.WithError(err).WithField("league", league.LeagueCode()).Error("scan failed")
			}
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// scan walks every market the league declares and records any arbitrage
// opportunities found.
func (s *Scheduler) scan(ctx context.Context, league contracts.LeagueModule) error {
	start := time.Now()

	matches, found := 0, 0
	for _, marketKey := range league.Markets() {
		outcomes, ok := soccer.MarketOutcomes(marketKey)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"league": league.LeagueCode(),
				"market": marketKey,
			}).Warn("skipping market with no canonical outcome set")
			continue
		}

		results, err := s.svc.GetArbitrage(ctx, league, s.opts.MatchWindow, marketKey, outcomes, s.opts.TotalStake)
		if err != nil {
			return fmt.Errorf("scan %s %s: %w", league.LeagueCode(), marketKey, err)
		}
		matches += len(results)

		for _, result := range results {
			if result.Opportunity == nil {
				continue
			}
			found++

			if s.writer == nil {
				s.log.WithFields(logrus.Fields{
					"league": league.LeagueCode(),
					"match":  result.Match.StableID,
					"margin": result.Opportunity.ProfitMargin,
				}).Info("arbitrage opportunity detected")
				continue
			}

			if _, err := s.writer.Record(ctx, league.LeagueCode(), result.Opportunity); err != nil {
				s.log.WithError(err).WithField("match", result.Match.StableID).Error("failed to record opportunity")
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"league":        league.LeagueCode(),
		"matches":       matches,
		"opportunities": found,
		"duration":      time.Since(start),
	}).Debug("scan complete")

	return nil
}

// recoverKeys periodically returns cooled-down keys to rotation.
func (s *Scheduler) recoverKeys(ctx context.Context) {
	ticker := time.NewTicker(s.opts.RecoverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if recovered := s.pool.TryRecover(); recovered > 0 {
				s.log.WithField("recovered", recovered).Info("returned keys to rotation")
			}
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// addJitter adds random jitter to prevent synchronized polling.
func addJitter(duration time.Duration, jitterSeconds int) time.Duration {
	if jitterSeconds == 0 {
		return duration
	}

	jitter := time.Duration(rand.Intn(jitterSeconds)) * time.Second
	return duration + jitter
}
