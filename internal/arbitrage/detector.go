// Package arbitrage evaluates best-available prices across bookmakers for
// sub-unity combined implied probability.
package arbitrage

import (
	"github.com/XavierBriggs/Delphi/pkg/models"
	"github.com/XavierBriggs/Delphi/pkg/oddsmath"
)

// Detect returns an opportunity when the sum of implied probabilities over
// the market's best prices is below 1, with a stake split guaranteeing equal
// payout regardless of outcome. Returns nil when any outcome lacks a best
// price or when no edge exists. totalStake must be positive.
//
// Stake per outcome i is totalStake * (1/price_i) / sum_inv, so every leg
// pays out totalStake / sum_inv and stakes sum exactly to totalStake.
func Detect(match models.MatchIdentity, marketKey string, outcomes []models.OutcomeKey, best map[models.OutcomeKey]models.BestPrice, totalStake float64) *models.ArbitrageOpportunity {
	if totalStake <= 0 || len(outcomes) == 0 {
		return nil
	}

	// Every outcome in the market needs a price or the combined implied
	// probability is undefined.
	inv := make([]float64, len(outcomes))
	sumInv := 0.0
	for i, key := range outcomes {
		bp, ok := best[key]
		if !ok {
			return nil
		}
		p, err := oddsmath.Implied(bp.Price)
		if err != nil {
			return nil
		}
		inv[i] = p
		sumInv += p
	}

	if sumInv >= 1 {
		return nil
	}

	opp := &models.ArbitrageOpportunity{
		Match:        match,
		MarketKey:    marketKey,
		TotalImplied: sumInv,
		ProfitMargin: 1/sumInv - 1,
		TotalStake:   totalStake,
		Stakes:       make([]models.Stake, len(outcomes)),
	}

	for i, key := range outcomes {
		bp := best[key]
		stake := totalStake * inv[i] / sumInv
		opp.Stakes[i] = models.Stake{
			Outcome: key,
			BookKey: bp.BookKey,
			Price:   bp.Price,
			Stake:   stake,
			Payout:  stake * bp.Price,
		}
	}

	return opp
}

// BestPrices extracts the per-outcome best prices from a market consensus.
// Outcomes with no contributing bookmaker are omitted, which makes the
// market unevaluable for Detect.
func BestPrices(mc models.MarketConsensus) map[models.OutcomeKey]models.BestPrice {
	best := make(map[models.OutcomeKey]models.BestPrice, len(mc.Outcomes))
	for _, cp := range mc.Outcomes {
		if !cp.Available {
			continue
		}
		best[cp.Outcome] = models.BestPrice{Price: cp.BestPrice, BookKey: cp.BestBookmaker}
	}
	return best
}
