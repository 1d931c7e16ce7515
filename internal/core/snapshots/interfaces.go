package snapshots

import "context"

// SnapshotRepository defines the interface for snapshot persistence.
// All writes are upserts keyed by character ID.
type SnapshotRepository interface {
	UpsertCharacter(ctx context.Context, snap *CharacterSnapshot) error
	UpsertSkills(ctx context.Context, snap *SkillsSnapshot) error
	UpsertStatus(ctx context.Context, snap *StatusSnapshot) error
	GetStatus(ctx context.Context, characterID int64) (*StatusSnapshot, error)
}
