package esi

import "time"

// ServerStatus is the Tranquility server status.
type ServerStatus struct {
	Players       int       `json:"players"`
	ServerVersion string    `json:"server_version"`
	StartTime     time.Time `json:"start_time"`
	VIP           bool      `json:"vip,omitempty"`
}

// Character is the public character sheet.
type Character struct {
	Name           string  `json:"name"`
	CorporationID  int64   `json:"corporation_id"`
	AllianceID     int64   `json:"alliance_id,omitempty"`
	Birthday       string  `json:"birthday"`
	SecurityStatus float64 `json:"security_status"`
	Description    string  `json:"description"`
}

// Corporation is the public corporation sheet.
type Corporation struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	MemberCount int    `json:"member_count"`
	URL         string `json:"url"`
}

// Online is the character's online status.
type Online struct {
	Online     bool      `json:"online"`
	LastLogin  time.Time `json:"last_login,omitempty"`
	LastLogout time.Time `json:"last_logout,omitempty"`
	Logins     int       `json:"logins,omitempty"`
}

// Location is where the character currently is. StationID and StructureID
// are zero unless docked there.
type Location struct {
	SolarSystemID int64 `json:"solar_system_id"`
	StationID     int64 `json:"station_id,omitempty"`
	StructureID   int64 `json:"structure_id,omitempty"`
}

// SolarSystem is a universe system lookup.
type SolarSystem struct {
	Name           string  `json:"name"`
	SecurityStatus float64 `json:"security_status"`
}

// Station is an NPC station lookup.
type Station struct {
	Name string `json:"name"`
}

// Structure is a player structure lookup (authenticated).
type Structure struct {
	Name          string `json:"name"`
	SolarSystemID int64  `json:"solar_system_id"`
}

// Ship is the character's current ship.
type Ship struct {
	ShipTypeID int64  `json:"ship_type_id"`
	ShipItemID int64  `json:"ship_item_id"`
	ShipName   string `json:"ship_name"`
}

// ItemType is a universe type lookup.
type ItemType struct {
	Name        string `json:"name"`
	GroupID     int64  `json:"group_id"`
	Description string `json:"description,omitempty"`
}

// ItemGroup is a universe group lookup.
type ItemGroup struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

// Skill is one trained skill.
type Skill struct {
	SkillID            int64 `json:"skill_id"`
	ActiveSkillLevel   int   `json:"active_skill_level"`
	TrainedSkillLevel  int   `json:"trained_skill_level"`
	SkillpointsInSkill int64 `json:"skillpoints_in_skill"`
}

// Skills is the character's full skill sheet.
type Skills struct {
	Skills        []Skill `json:"skills"`
	TotalSP       int64   `json:"total_sp"`
	UnallocatedSP int64   `json:"unallocated_sp,omitempty"`
}

// SkillQueueEntry is one queued skill.
type SkillQueueEntry struct {
	SkillID       int64     `json:"skill_id"`
	FinishedLevel int       `json:"finished_level"`
	QueuePosition int       `json:"queue_position"`
	FinishDate    time.Time `json:"finish_date,omitempty"`
}

// FleetMembership reports which fleet the character is in, if any.
type FleetMembership struct {
	FleetID int64  `json:"fleet_id"`
	Role    string `json:"role"`
	SquadID int64  `json:"squad_id"`
	WingID  int64  `json:"wing_id"`
}

// Incursion is one active incursion.
type Incursion struct {
	ConstellationID       int64   `json:"constellation_id"`
	StagingSolarSystemID  int64   `json:"staging_solar_system_id"`
	State                 string  `json:"state"`
	Influence             float64 `json:"influence"`
	HasBoss               bool    `json:"has_boss"`
	InfestedSolarSystems  []int64 `json:"infested_solar_systems,omitempty"`
	FactionID             int64   `json:"faction_id,omitempty"`
	Type                  string  `json:"type,omitempty"`
	StagingSolarSystemSec float64 `json:"-"`
}
