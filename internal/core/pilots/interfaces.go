package pilots

import (
	"context"
	"time"
)

// PilotRepository defines the interface for pilot credential persistence
type PilotRepository interface {
	// GetByCharacterID retrieves a pilot by EVE character ID.
	// Returns ErrPilotNotFound when no record exists.
	GetByCharacterID(ctx context.Context, characterID int64) (*Pilot, error)

	// Upsert creates the record if absent, otherwise merges and overwrites
	// the owner hash, character name, and token fields. Exactly one record
	// per character ID.
	Upsert(ctx context.Context, pilot *Pilot) (*Pilot, error)

	// UpdateTokens persists refreshed token material for an existing pilot.
	// An empty refreshToken retains the stored value.
	UpdateTokens(ctx context.Context, characterID int64, accessToken string, expiry time.Time, refreshToken string) error
}
