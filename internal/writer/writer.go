// Package writer persists detected arbitrage opportunities to Postgres.
package writer

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

// Writer records arbitrage opportunities and their stake legs in a single
// transaction per opportunity. It deduplicates by match so a persistent edge
// is not re-inserted on every poll cycle.
type Writer struct {
	db  *sql.DB
	log *logrus.Entry

	seen   map[string]time.Time
	seenMu sync.Mutex

	// How long a recorded match stays deduplicated before a fresh sighting
	// is written again.
	dedupeWindow time.Duration
}

// NewWriter creates an opportunity writer. dedupeWindow bounds how often the
// same match's edge is re-recorded; zero disables deduplication.
func NewWriter(db *sql.DB, dedupeWindow time.Duration) *Writer {
	return &Writer{
		db:           db,
		log:          logrus.WithField("component", "writer"),
		seen:         make(map[string]time.Time),
		dedupeWindow: dedupeWindow,
	}
}

// Record persists one opportunity with its legs. Returns (false, nil) when
// the match was already recorded within the dedupe window.
func (w *Writer) Record(ctx context.Context, leagueCode string, opp *models.ArbitrageOpportunity) (bool, error) {
	if opp == nil {
		return false, nil
	}
	if !w.shouldRecord(opp.Match.StableID) {
		return false, nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oppID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO arbitrage_opportunities (
			match_id, provider_event_id, league_code, market_key,
			home_team, away_team, commence_time,
			total_implied, profit_margin, total_stake, detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id
	`,
		opp.Match.StableID, opp.Match.ProviderEventID, leagueCode, opp.MarketKey,
		opp.Match.HomeTeam, opp.Match.AwayTeam, opp.Match.CommenceTime,
		opp.TotalImplied, opp.ProfitMargin, opp.TotalStake,
	).Scan(&oppID)
	if err != nil {
		return false, fmt.Errorf("insert opportunity: %w", err)
	}

	if err := w.insertLegs(ctx, tx, oppID, opp.Stakes); err != nil {
		return false, fmt.Errorf("insert legs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	w.markRecorded(opp.Match.StableID)
	w.log.WithFields(logrus.Fields{
		"match":  opp.Match.StableID,
		"league": leagueCode,
		"margin": opp.ProfitMargin,
	}).Info("recorded arbitrage opportunity")
	return true, nil
}

// insertLegs batch-inserts the stake legs for one opportunity using UNNEST.
func (w *Writer) insertLegs(ctx context.Context, tx *sql.Tx, oppID int64, stakes []models.Stake) error {
	if len(stakes) == 0 {
		return nil
	}

	outcomes := make([]string, len(stakes))
	books := make([]string, len(stakes))
	prices := make([]float64, len(stakes))
	amounts := make([]float64, len(stakes))
	payouts := make([]float64, len(stakes))

	for i, s := range stakes {
		outcomes[i] = string(s.Outcome)
		books[i] = s.BookKey
		prices[i] = s.Price
		amounts[i] = s.Stake
		payouts[i] = s.Payout
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO arbitrage_legs (
			opportunity_id, outcome, book_key, price, stake, payout
		)
		SELECT $1, UNNEST($2::text[]), UNNEST($3::text[]),
		       UNNEST($4::decimal[]), UNNEST($5::decimal[]), UNNEST($6::decimal[])
	`,
		oppID, pq.Array(outcomes), pq.Array(books),
		pq.Array(prices), pq.Array(amounts), pq.Array(payouts),
	)
	return err
}

func (w *Writer) shouldRecord(matchID string) bool {
	if w.dedupeWindow <= 0 {
		return true
	}

	w.seenMu.Lock()
	defer w.seenMu.Unlock()

	last, ok := w.seen[matchID]
	if ok && time.Since(last) < w.dedupeWindow {
		return false
	}
	return true
}

func (w *Writer) markRecorded(matchID string) {
	if w.dedupeWindow <= 0 {
		return
	}

	w.seenMu.Lock()
	defer w.seenMu.Unlock()

	w.seen[matchID] = time.Now()

	// Prune stale entries opportunistically to keep the map bounded.
	cutoff := time.Now().Add(-w.dedupeWindow)
	for id, at := range w.seen {
		if at.Before(cutoff) {
			delete(w.seen, id)
		}
	}
}
