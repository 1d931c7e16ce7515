// Package snapshots persists point-in-time views of a pilot's ESI data so
// the dashboard and external tooling can query it without hitting ESI.
package snapshots

import (
	"encoding/json"
	"time"
)

// CharacterSnapshot mirrors the public character sheet.
type CharacterSnapshot struct {
	CharacterID    int64   `json:"characterId" db:"character_id"`
	Name           string  `json:"name" db:"name"`
	Birthday       string  `json:"birthday" db:"birthday"`
	CorporationID  int64   `json:"corporationId" db:"corporation_id"`
	AllianceID     int64   `json:"allianceId" db:"alliance_id"`
	SecurityStatus float64 `json:"securityStatus" db:"security_status"`
	Description    string  `json:"description" db:"description"`
}

// SkillsSnapshot mirrors the skill sheet. Skills holds the raw trained
// skill list as JSON; the dashboard only aggregates it.
type SkillsSnapshot struct {
	CharacterID   int64           `json:"characterId" db:"character_id"`
	Skills        json.RawMessage `json:"skills" db:"skills"`
	TotalSP       int64           `json:"totalSp" db:"total_sp"`
	UnallocatedSP int64           `json:"unallocatedSp" db:"unallocated_sp"`
}

// StatusSnapshot mirrors the pilot's live status line: online flag, solar
// system name, fleet membership, and dock. DockedAt is empty when undocked.
type StatusSnapshot struct {
	CharacterID int64     `json:"characterId" db:"character_id"`
	Online      bool      `json:"online" db:"online"`
	Location    string    `json:"location" db:"location"`
	FleetID     int64     `json:"fleetId" db:"fleet_id"`
	DockedAt    string    `json:"dockedAt" db:"docked_at"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}
