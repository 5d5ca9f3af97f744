package models

// OutcomeKey is the canonical, match-scoped identity of a betting outcome.
type OutcomeKey string

const (
	OutcomeHome OutcomeKey = "home"
	OutcomeDraw OutcomeKey = "draw"
	OutcomeAway OutcomeKey = "away"
)

// ConsensusProbability is the cross-bookmaker view of one canonical outcome.
// Probability is the overround-adjusted consensus (market outcomes sum to 1);
// RawMean is the arithmetic mean of implied probabilities before that
// renormalization. When no bookmaker quote mapped onto the outcome, Available
// is false and the probability fields are meaningless; callers must never
// substitute a placeholder value.
type ConsensusProbability struct {
	Outcome       OutcomeKey
	Probability   float64
	RawMean       float64
	BookCount     int
	BestPrice     float64
	BestBookmaker string
	RawLabels     []string
	Available     bool
}

// UnmatchedQuote is a bookmaker quote whose outcome label could not be
// resolved to a canonical outcome. Reported separately, excluded from
// aggregation.
type UnmatchedQuote struct {
	BookKey string
	Label   string
	Price   float64
}

// MarketConsensus is the aggregated view of one market for one match.
// Prediction is the most probable available outcome ("" when no outcome is
// available); Confidence is its consensus probability expressed as a percent.
type MarketConsensus struct {
	Match      MatchIdentity
	MarketKey  string
	Outcomes   []ConsensusProbability
	Unmatched  []UnmatchedQuote
	Prediction OutcomeKey
	Confidence float64
}

// BestPrice is the highest quoted price for an outcome and the bookmaker offering it.
type BestPrice struct {
	Price   float64
	BookKey string
}

// Stake is one leg of an arbitrage stake split.
type Stake struct {
	Outcome OutcomeKey
	BookKey string
	Price   float64
	Stake   float64
	Payout  float64
}

// ArbitrageOpportunity describes a sub-unity combined implied probability
// across best available prices, with a stake allocation that guarantees equal
// payout regardless of the winning outcome. Stakes sum to TotalStake.
type ArbitrageOpportunity struct {
	Match        MatchIdentity
	MarketKey    string
	TotalImplied float64
	ProfitMargin float64
	TotalStake   float64
	Stakes       []Stake
}

// MatchArbitrage pairs a match with its arbitrage evaluation. Opportunity is
// nil when the market cannot be evaluated or carries no edge.
type MatchArbitrage struct {
	Match       MatchIdentity
	Opportunity *ArbitrageOpportunity
}
