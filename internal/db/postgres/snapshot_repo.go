package postgres

import (
	"Hangar/internal/core/snapshots"
	"context"
	"database/sql"
	"fmt"
)

type postgresSnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(db *sql.DB) snapshots.SnapshotRepository {
	return &postgresSnapshotRepo{db: db}
}

// UpsertCharacter writes the character sheet snapshot
func (r *postgresSnapshotRepo) UpsertCharacter(ctx context.Context, snap *snapshots.CharacterSnapshot) error {
	query := `
		INSERT INTO characters (character_id, name, birthday, corporation_id,
		                        alliance_id, security_status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (character_id) DO UPDATE SET
			name = EXCLUDED.name,
			birthday = EXCLUDED.birthday,
			corporation_id = EXCLUDED.corporation_id,
			alliance_id = EXCLUDED.alliance_id,
			security_status = EXCLUDED.security_status,
			description = EXCLUDED.description`

	_, err := r.db.ExecContext(ctx, query,
		snap.CharacterID, snap.Name, snap.Birthday, snap.CorporationID,
		snap.AllianceID, snap.SecurityStatus, snap.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert character snapshot: %w", err)
	}
	return nil
}

// UpsertSkills writes the skill sheet snapshot
func (r *postgresSnapshotRepo) UpsertSkills(ctx context.Context, snap *snapshots.SkillsSnapshot) error {
	query := `
		INSERT INTO skills (character_id, skills, total_sp, unallocated_sp)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (character_id) DO UPDATE SET
			skills = EXCLUDED.skills,
			total_sp = EXCLUDED.total_sp,
			unallocated_sp = EXCLUDED.unallocated_sp`

	_, err := r.db.ExecContext(ctx, query,
		snap.CharacterID, []byte(snap.Skills), snap.TotalSP, snap.UnallocatedSP)
	if err != nil {
		return fmt.Errorf("failed to upsert skills snapshot: %w", err)
	}
	return nil
}

// UpsertStatus writes the live status snapshot
func (r *postgresSnapshotRepo) UpsertStatus(ctx context.Context, snap *snapshots.StatusSnapshot) error {
	query := `
		INSERT INTO character_status (character_id, online, location, fleet_id,
		                              docked_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (character_id) DO UPDATE SET
			online = EXCLUDED.online,
			location = EXCLUDED.location,
			fleet_id = EXCLUDED.fleet_id,
			docked_at = EXCLUDED.docked_at,
			last_updated = EXCLUDED.last_updated`

	_, err := r.db.ExecContext(ctx, query,
		snap.CharacterID, snap.Online, snap.Location, snap.FleetID,
		snap.DockedAt, snap.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert status snapshot: %w", err)
	}
	return nil
}

// GetStatus retrieves the stored status snapshot for a character
func (r *postgresSnapshotRepo) GetStatus(ctx context.Context, characterID int64) (*snapshots.StatusSnapshot, error) {
	snap := &snapshots.StatusSnapshot{}
	query := `
		SELECT character_id, online, location, fleet_id, docked_at, last_updated
		FROM character_status WHERE character_id = $1`

	err := r.db.QueryRowContext(ctx, query, characterID).
		Scan(&snap.CharacterID, &snap.Online, &snap.Location, &snap.FleetID,
			&snap.DockedAt, &snap.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, snapshots.ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status snapshot: %w", err)
	}

	return snap, nil
}
