package soccer

import "github.com/XavierBriggs/Delphi/pkg/models"

// MarketMatchResult is the three-way match result market key ("1X2").
const MarketMatchResult = "h2h"

// ThreeWayOutcomes returns the canonical outcome set for the match result
// market, in home/draw/away order.
func ThreeWayOutcomes() []models.OutcomeKey {
	return []models.OutcomeKey{
		models.OutcomeHome,
		models.OutcomeDraw,
		models.OutcomeAway,
	}
}

// MarketOutcomes returns the canonical outcome set for a market key.
// ok is false for markets the pipeline does not aggregate.
func MarketOutcomes(marketKey string) ([]models.OutcomeKey, bool) {
	if marketKey == MarketMatchResult {
		return ThreeWayOutcomes(), true
	}
	return nil, false
}
