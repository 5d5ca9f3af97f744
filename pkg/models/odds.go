package models

import "time"

// Quote is a single (outcome label, decimal price) pair as quoted by a bookmaker.
// Labels are free text and must pass through the normalizer before aggregation.
type Quote struct {
	OutcomeLabel string
	Price        float64 // decimal odds
}

// MarketSnapshot holds one bookmaker's quoted prices for one match and one
// market at a point in time. Immutable once created.
type MarketSnapshot struct {
	BookKey   string
	BookTitle string
	MarketKey string
	Quotes    []Quote
	FetchedAt time.Time
}

// EventQuotes groups every bookmaker snapshot fetched for a single provider event.
type EventQuotes struct {
	ProviderEventID string
	SportKey        string
	HomeTeam        string
	AwayTeam        string
	CommenceTime    time.Time
	Snapshots       []MarketSnapshot
}

// MatchIdentity is the stable, process-independent identity of a tracked match.
// StableID is derived once from ProviderEventID and never mutated.
type MatchIdentity struct {
	StableID        string
	ProviderEventID string
	HomeTeam        string
	AwayTeam        string
	CommenceTime    time.Time
}

// FetchOptions contains parameters for fetching odds from the upstream provider.
type FetchOptions struct {
	Sport   string
	Regions []string
	Markets []string
}

// RateLimits tracks the upstream provider's quota headers.
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
}
