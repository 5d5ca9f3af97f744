// Package identity derives stable match identifiers from provider event
// references.
package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

// eventNamespace prefixes the provider event ID so stable IDs cannot collide
// with identifiers derived from other reference kinds.
const eventNamespace = "odds-event:"

// Resolve builds a MatchIdentity for a provider event. The stable ID is a
// name-based UUID (SHA-1 over the URL namespace) of the provider event ID
// alone, so the same event always yields the same ID across processes and
// restarts. Collisions between distinct provider IDs are possible only at
// hash-collision probability and are not handled specially.
func Resolve(providerEventID, homeTeam, awayTeam string, commenceTime time.Time) models.MatchIdentity {
	stable := uuid.NewSHA1(uuid.NameSpaceURL, []byte(eventNamespace+providerEventID))
	return models.MatchIdentity{
		StableID:        stable.String(),
		ProviderEventID: providerEventID,
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		CommenceTime:    commenceTime,
	}
}
