// Package consensus turns heterogeneous bookmaker quotes into canonical,
// comparable probabilities.
package consensus

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/Delphi/internal/normalize"
	"github.com/XavierBriggs/Delphi/pkg/models"
	"github.com/XavierBriggs/Delphi/pkg/oddsmath"
)

// Aggregator computes per-outcome consensus probabilities from bookmaker
// snapshots. Pure and stateless apart from the shared normalizer; safe to
// call concurrently across matches.
type Aggregator struct {
	normalizer *normalize.Normalizer
	log        *logrus.Entry
}

// New creates an aggregator over the given normalizer.
func New(normalizer *normalize.Normalizer) *Aggregator {
	return &Aggregator{
		normalizer: normalizer,
		log:        logrus.WithField("component", "consensus"),
	}
}

// outcomeAccumulator collects one canonical outcome's contributions across
// bookmakers.
type outcomeAccumulator struct {
	probs     []float64
	books     map[string]bool
	rawLabels map[string]bool
	bestPrice float64
	bestBook  string
}

// Aggregate computes the market consensus for one match. Quotes whose labels
// cannot be normalized are reported in Unmatched and excluded from the
// consensus; an outcome with zero contributing bookmakers is returned with
// Available=false, never a placeholder probability.
func (a *Aggregator) Aggregate(match models.MatchIdentity, marketKey string, outcomes []models.OutcomeKey, snapshots []models.MarketSnapshot) models.MarketConsensus {
	ctx := normalize.MatchContext{HomeTeam: match.HomeTeam, AwayTeam: match.AwayTeam}

	accs := make(map[models.OutcomeKey]*outcomeAccumulator, len(outcomes))
	for _, key := range outcomes {
		accs[key] = &outcomeAccumulator{
			books:     make(map[string]bool),
			rawLabels: make(map[string]bool),
		}
	}

	var unmatched []models.UnmatchedQuote
	for _, snap := range snapshots {
		if snap.MarketKey != marketKey {
			continue
		}
		for _, quote := range snap.Quotes {
			prob, err := oddsmath.Implied(quote.Price)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"match": match.StableID,
					"book":  snap.BookKey,
					"price": quote.Price,
				}).Warn("dropping quote with invalid price")
				continue
			}

			key, ok := a.normalizer.Normalize(quote.OutcomeLabel, ctx)
			if !ok {
				unmatched = append(unmatched, models.UnmatchedQuote{
					BookKey: snap.BookKey,
					Label:   quote.OutcomeLabel,
					Price:   quote.Price,
				})
				continue
			}
			acc, known := accs[key]
			if !known {
				// Label resolved to an outcome outside this market's set
				// (e.g. a draw quote on a two-way market).
				unmatched = append(unmatched, models.UnmatchedQuote{
					BookKey: snap.BookKey,
					Label:   quote.OutcomeLabel,
					Price:   quote.Price,
				})
				continue
			}

			acc.probs = append(acc.probs, prob)
			acc.books[snap.BookKey] = true
			acc.rawLabels[quote.OutcomeLabel] = true
			if quote.Price > acc.bestPrice {
				acc.bestPrice = quote.Price
				acc.bestBook = snap.BookKey
			}
		}
	}

	result := models.MarketConsensus{
		Match:     match,
		MarketKey: marketKey,
		Outcomes:  make([]models.ConsensusProbability, 0, len(outcomes)),
		Unmatched: unmatched,
	}

	// Mean implied probability per outcome, then renormalize the available
	// outcomes so the market sums to 1.
	totalMean := 0.0
	for _, key := range outcomes {
		acc := accs[key]
		cp := models.ConsensusProbability{Outcome: key}
		if len(acc.probs) > 0 {
			mean, _ := oddsmath.Mean(acc.probs)
			cp.RawMean = mean
			cp.BookCount = len(acc.books)
			cp.BestPrice = acc.bestPrice
			cp.BestBookmaker = acc.bestBook
			cp.RawLabels = sortedKeys(acc.rawLabels)
			cp.Available = true
			totalMean += mean
		}
		result.Outcomes = append(result.Outcomes, cp)
	}

	for i := range result.Outcomes {
		cp := &result.Outcomes[i]
		if !cp.Available || totalMean <= 0 {
			continue
		}
		cp.Probability = cp.RawMean / totalMean
		if cp.Probability > result.Confidence {
			result.Confidence = cp.Probability
			result.Prediction = cp.Outcome
		}
	}
	result.Confidence *= 100

	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
