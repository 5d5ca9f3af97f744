package arbitrage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Delphi/internal/identity"
	"github.com/XavierBriggs/Delphi/pkg/models"
)

var threeWay = []models.OutcomeKey{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway}

func testMatch() models.MatchIdentity {
	return identity.Resolve("evt-1", "Arsenal", "Chelsea",
		time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC))
}

func TestDetectNoOpportunity(t *testing.T) {
	// 1/2.10 + 1/3.40 + 1/4.00 ~= 1.021: the books keep their margin.
	best := map[models.OutcomeKey]models.BestPrice{
		models.OutcomeHome: {Price: 2.10, BookKey: "bet365"},
		models.OutcomeDraw: {Price: 3.40, BookKey: "pinnacle"},
		models.OutcomeAway: {Price: 4.00, BookKey: "williamhill"},
	}

	opp := Detect(testMatch(), "h2h", threeWay, best, 100)
	assert.Nil(t, opp)
}

func TestDetectOpportunity(t *testing.T) {
	// 1/2.50 + 1/3.40 + 1/4.20 ~= 0.932 -> ~7.3% guaranteed margin.
	best := map[models.OutcomeKey]models.BestPrice{
		models.OutcomeHome: {Price: 2.50, BookKey: "bet365"},
		models.OutcomeDraw: {Price: 3.40, BookKey: "pinnacle"},
		models.OutcomeAway: {Price: 4.20, BookKey: "williamhill"},
	}

	opp := Detect(testMatch(), "h2h", threeWay, best, 100)
	require.NotNil(t, opp)

	assert.InDelta(t, 0.932, opp.TotalImplied, 0.001)
	assert.InDelta(t, 0.073, opp.ProfitMargin, 0.001)

	require.Len(t, opp.Stakes, 3)
	assert.InDelta(t, 42.9, opp.Stakes[0].Stake, 0.1)
	assert.InDelta(t, 31.6, opp.Stakes[1].Stake, 0.1)
	assert.InDelta(t, 25.5, opp.Stakes[2].Stake, 0.1)

	// Stakes sum exactly to the caller's total, within float tolerance.
	total := 0.0
	for _, s := range opp.Stakes {
		total += s.Stake
	}
	assert.InDelta(t, 100.0, total, 0.01)

	// Equal payout regardless of which outcome wins.
	payout := opp.Stakes[0].Payout
	assert.InDelta(t, 107.3, payout, 0.1)
	for _, s := range opp.Stakes {
		assert.InDelta(t, payout, s.Payout, 1e-6)
	}

	assert.Equal(t, "bet365", opp.Stakes[0].BookKey)
	assert.Equal(t, 100.0, opp.TotalStake)
}

func TestDetectMissingOutcome(t *testing.T) {
	// A market missing any outcome's best price cannot be evaluated.
	best := map[models.OutcomeKey]models.BestPrice{
		models.OutcomeHome: {Price: 2.50, BookKey: "bet365"},
		models.OutcomeAway: {Price: 4.20, BookKey: "williamhill"},
	}

	assert.Nil(t, Detect(testMatch(), "h2h", threeWay, best, 100))
}

func TestDetectInvalidInputs(t *testing.T) {
	best := map[models.OutcomeKey]models.BestPrice{
		models.OutcomeHome: {Price: 2.50, BookKey: "a"},
		models.OutcomeDraw: {Price: 3.40, BookKey: "b"},
		models.OutcomeAway: {Price: 4.20, BookKey: "c"},
	}

	assert.Nil(t, Detect(testMatch(), "h2h", threeWay, best, 0))
	assert.Nil(t, Detect(testMatch(), "h2h", threeWay, best, -5))
	assert.Nil(t, Detect(testMatch(), "h2h", nil, best, 100))

	bad := map[models.OutcomeKey]models.BestPrice{
		models.OutcomeHome: {Price: 0.80, BookKey: "a"},
		models.OutcomeDraw: {Price: 3.40, BookKey: "b"},
		models.OutcomeAway: {Price: 4.20, BookKey: "c"},
	}
	assert.Nil(t, Detect(testMatch(), "h2h", threeWay, bad, 100))
}

func TestBestPrices(t *testing.T) {
	mc := models.MarketConsensus{
		Outcomes: []models.ConsensusProbability{
			{Outcome: models.OutcomeHome, Available: true, BestPrice: 2.5, BestBookmaker: "bet365"},
			{Outcome: models.OutcomeDraw, Available: false},
			{Outcome: models.OutcomeAway, Available: true, BestPrice: 4.2, BestBookmaker: "pinnacle"},
		},
	}

	best := BestPrices(mc)
	require.Len(t, best, 2)
	assert.Equal(t, models.BestPrice{Price: 2.5, BookKey: "bet365"}, best[models.OutcomeHome])
	_, ok := best[models.OutcomeDraw]
	assert.False(t, ok)
}
