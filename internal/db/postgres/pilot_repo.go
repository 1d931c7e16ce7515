package postgres

import (
	"Hangar/internal/core/pilots"
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresPilotRepo struct {
	db *sql.DB
}

// NewPilotRepository creates a new PostgreSQL pilot repository
func NewPilotRepository(db *sql.DB) pilots.PilotRepository {
	return &postgresPilotRepo{db: db}
}

// GetByCharacterID retrieves a pilot by character ID
func (r *postgresPilotRepo) GetByCharacterID(ctx context.Context, characterID int64) (*pilots.Pilot, error) {
	pilot := &pilots.Pilot{}
	query := `
		SELECT character_id, owner_hash, character_name, access_token,
		       access_token_expires, refresh_token, created_at, updated_at
		FROM pilots WHERE character_id = $1`

	var refreshToken sql.NullString
	err := r.db.QueryRowContext(ctx, query, characterID).
		Scan(&pilot.CharacterID, &pilot.OwnerHash, &pilot.CharacterName,
			&pilot.AccessToken, &pilot.AccessTokenExpires, &refreshToken,
			&pilot.CreatedAt, &pilot.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, pilots.ErrPilotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pilot by character ID: %w", err)
	}

	pilot.RefreshToken = refreshToken.String

	return pilot, nil
}

// Upsert inserts the pilot, or replaces the stored credentials when a row
// for the character already exists. Re-login always wins.
func (r *postgresPilotRepo) Upsert(ctx context.Context, pilot *pilots.Pilot) (*pilots.Pilot, error) {
	query := `
		INSERT INTO pilots (character_id, owner_hash, character_name, access_token,
		                    access_token_expires, refresh_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (character_id) DO UPDATE SET
			owner_hash = EXCLUDED.owner_hash,
			character_name = EXCLUDED.character_name,
			access_token = EXCLUDED.access_token,
			access_token_expires = EXCLUDED.access_token_expires,
			refresh_token = EXCLUDED.refresh_token,
			updated_at = NOW()
		RETURNING character_id, owner_hash, character_name, access_token,
		          access_token_expires, refresh_token, created_at, updated_at`

	saved := &pilots.Pilot{}
	var refreshToken sql.NullString
	err := r.db.QueryRowContext(ctx, query,
		pilot.CharacterID, pilot.OwnerHash, pilot.CharacterName,
		pilot.AccessToken, pilot.AccessTokenExpires, pilot.RefreshToken).
		Scan(&saved.CharacterID, &saved.OwnerHash, &saved.CharacterName,
			&saved.AccessToken, &saved.AccessTokenExpires, &refreshToken,
			&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pilot: %w", err)
	}

	saved.RefreshToken = refreshToken.String

	return saved, nil
}

// UpdateTokens writes refreshed token material back to the pilot row. An
// empty refreshToken keeps the stored one, since providers may omit the
// refresh token on rotation.
func (r *postgresPilotRepo) UpdateTokens(ctx context.Context, characterID int64, accessToken string, expiry time.Time, refreshToken string) error {
	query := `
		UPDATE pilots
		SET access_token = $2,
		    access_token_expires = $3,
		    refresh_token = CASE WHEN $4 = '' THEN refresh_token ELSE $4 END,
		    updated_at = NOW()
		WHERE character_id = $1`

	result, err := r.db.ExecContext(ctx, query, characterID, accessToken, expiry, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to update pilot tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check token update: %w", err)
	}
	if rows == 0 {
		return pilots.ErrPilotNotFound
	}

	return nil
}
