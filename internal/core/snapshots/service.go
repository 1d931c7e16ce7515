package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"Hangar/internal/core/pilots"
	"Hangar/internal/eve/esi"
)

// ESIReader is the slice of the ESI surface the snapshot pipeline reads.
type ESIReader interface {
	Character(ctx context.Context, characterID int64) (*esi.Character, error)
	Skills(ctx context.Context, characterID int64, token string) (*esi.Skills, error)
	Online(ctx context.Context, characterID int64, token string) (*esi.Online, error)
	Location(ctx context.Context, characterID int64, token string) (*esi.Location, error)
	SolarSystem(ctx context.Context, systemID int64) (*esi.SolarSystem, error)
	Station(ctx context.Context, stationID int64) (*esi.Station, error)
	Structure(ctx context.Context, structureID int64, token string) (*esi.Structure, error)
	Fleet(ctx context.Context, characterID int64, token string) (*esi.FleetMembership, error)
}

// TokenSource supplies pilots and valid access tokens for them.
type TokenSource interface {
	GetPilot(ctx context.Context, characterID int64) (*pilots.Pilot, error)
	AccessToken(ctx context.Context, pilot *pilots.Pilot) (string, error)
}

// Service records snapshots, either piecemeal as dashboard pages render or
// as a full refresh from the background worker.
type Service struct {
	repo   SnapshotRepository
	esi    ESIReader
	tokens TokenSource
}

// NewService creates a new snapshot service
func NewService(repo SnapshotRepository, reader ESIReader, tokens TokenSource) *Service {
	return &Service{
		repo:   repo,
		esi:    reader,
		tokens: tokens,
	}
}

// SaveCharacter upserts the character sheet snapshot.
func (s *Service) SaveCharacter(ctx context.Context, snap *CharacterSnapshot) error {
	if snap.CharacterID == 0 {
		return fmt.Errorf("character snapshot requires a character id")
	}
	return s.repo.UpsertCharacter(ctx, snap)
}

// SaveSkills upserts the skill sheet snapshot.
func (s *Service) SaveSkills(ctx context.Context, snap *SkillsSnapshot) error {
	if snap.CharacterID == 0 {
		return fmt.Errorf("skills snapshot requires a character id")
	}
	return s.repo.UpsertSkills(ctx, snap)
}

// SaveStatus upserts the live status snapshot, stamping LastUpdated when
// unset.
func (s *Service) SaveStatus(ctx context.Context, snap *StatusSnapshot) error {
	if snap.CharacterID == 0 {
		return fmt.Errorf("status snapshot requires a character id")
	}
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = time.Now().UTC()
	}
	return s.repo.UpsertStatus(ctx, snap)
}

// Status returns the stored status snapshot for a character.
func (s *Service) Status(ctx context.Context, characterID int64) (*StatusSnapshot, error) {
	return s.repo.GetStatus(ctx, characterID)
}

// Refresh pulls the character sheet, skill sheet, and live status from ESI
// and upserts all three snapshots. This is the background worker's job body.
func (s *Service) Refresh(ctx context.Context, characterID int64) error {
	pilot, err := s.tokens.GetPilot(ctx, characterID)
	if err != nil {
		return fmt.Errorf("load pilot %d: %w", characterID, err)
	}

	token, err := s.tokens.AccessToken(ctx, pilot)
	if err != nil {
		return fmt.Errorf("access token for %d: %w", characterID, err)
	}

	char, err := s.esi.Character(ctx, characterID)
	if err != nil {
		return fmt.Errorf("fetch character %d: %w", characterID, err)
	}
	if err := s.SaveCharacter(ctx, &CharacterSnapshot{
		CharacterID:    characterID,
		Name:           char.Name,
		Birthday:       char.Birthday,
		CorporationID:  char.CorporationID,
		AllianceID:     char.AllianceID,
		SecurityStatus: char.SecurityStatus,
		Description:    char.Description,
	}); err != nil {
		return err
	}

	sheet, err := s.esi.Skills(ctx, characterID, token)
	if err != nil {
		return fmt.Errorf("fetch skills %d: %w", characterID, err)
	}
	raw, err := json.Marshal(sheet.Skills)
	if err != nil {
		return fmt.Errorf("encode skills %d: %w", characterID, err)
	}
	if err := s.SaveSkills(ctx, &SkillsSnapshot{
		CharacterID:   characterID,
		Skills:        raw,
		TotalSP:       sheet.TotalSP,
		UnallocatedSP: sheet.UnallocatedSP,
	}); err != nil {
		return err
	}

	status, err := s.buildStatus(ctx, characterID, token)
	if err != nil {
		return err
	}
	return s.SaveStatus(ctx, status)
}

func (s *Service) buildStatus(ctx context.Context, characterID int64, token string) (*StatusSnapshot, error) {
	online, err := s.esi.Online(ctx, characterID, token)
	if err != nil {
		return nil, fmt.Errorf("fetch online %d: %w", characterID, err)
	}

	loc, err := s.esi.Location(ctx, characterID, token)
	if err != nil {
		return nil, fmt.Errorf("fetch location %d: %w", characterID, err)
	}

	systemName, dockedAt := s.ResolveLocation(ctx, token, loc)

	var fleetID int64
	fleet, err := s.esi.Fleet(ctx, characterID, token)
	switch {
	case err == nil:
		fleetID = fleet.FleetID
	case errors.Is(err, esi.ErrNotFound):
		// Not in a fleet.
	default:
		return nil, fmt.Errorf("fetch fleet %d: %w", characterID, err)
	}

	return &StatusSnapshot{
		CharacterID: characterID,
		Online:      online.Online,
		Location:    systemName,
		FleetID:     fleetID,
		DockedAt:    dockedAt,
		LastUpdated: time.Now().UTC(),
	}, nil
}

// ResolveLocation turns a raw ESI location into display names: the solar
// system, and the station or structure name when docked. Lookup failures
// degrade to the numeric ID rather than failing the whole status build.
func (s *Service) ResolveLocation(ctx context.Context, token string, loc *esi.Location) (systemName, dockedAt string) {
	system, err := s.esi.SolarSystem(ctx, loc.SolarSystemID)
	if err != nil {
		slog.Warn("solar system lookup failed", "system_id", loc.SolarSystemID, "error", err)
		systemName = fmt.Sprintf("%d", loc.SolarSystemID)
	} else {
		systemName = system.Name
	}

	switch {
	case loc.StationID != 0:
		station, err := s.esi.Station(ctx, loc.StationID)
		if err != nil {
			slog.Warn("station lookup failed", "station_id", loc.StationID, "error", err)
			dockedAt = fmt.Sprintf("%d", loc.StationID)
		} else {
			dockedAt = station.Name
		}
	case loc.StructureID != 0:
		structure, err := s.esi.Structure(ctx, loc.StructureID, token)
		if err != nil {
			slog.Warn("structure lookup failed", "structure_id", loc.StructureID, "error", err)
			dockedAt = fmt.Sprintf("%d", loc.StructureID)
		} else {
			dockedAt = structure.Name
		}
	}
	return systemName, dockedAt
}
