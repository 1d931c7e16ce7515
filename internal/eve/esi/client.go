// Package esi is a thin client for the EVE Swagger Interface endpoints the
// dashboard reads. Authenticated calls take the access token as an explicit
// argument; the client itself holds no credentials.
package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned for 404 responses, e.g. a character that is not
// currently in a fleet.
var ErrNotFound = errors.New("esi: not found")

// APIError reports a non-2xx ESI response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("esi: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the EVE Swagger Interface.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a new ESI client
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// get issues a GET to the given ESI path and decodes the JSON response into
// out. token may be empty for public endpoints.
func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("esi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("esi: GET %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("esi: decode %s: %w", path, err)
	}
	return nil
}

// Status returns the Tranquility server status. Public.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	var s ServerStatus
	if err := c.get(ctx, "/status/", "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Character returns the public character sheet.
func (c *Client) Character(ctx context.Context, characterID int64) (*Character, error) {
	var ch Character
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/", characterID), "", &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Corporation returns the public corporation sheet.
func (c *Client) Corporation(ctx context.Context, corporationID int64) (*Corporation, error) {
	var corp Corporation
	if err := c.get(ctx, fmt.Sprintf("/corporations/%d/", corporationID), "", &corp); err != nil {
		return nil, err
	}
	return &corp, nil
}

// Online returns the character's online status. Requires
// esi-location.read_online.v1.
func (c *Client) Online(ctx context.Context, characterID int64, token string) (*Online, error) {
	var o Online
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/online/", characterID), token, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Location returns where the character currently is. Requires
// esi-location.read_location.v1.
func (c *Client) Location(ctx context.Context, characterID int64, token string) (*Location, error) {
	var l Location
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/location/", characterID), token, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SolarSystem returns a universe system lookup. Public.
func (c *Client) SolarSystem(ctx context.Context, systemID int64) (*SolarSystem, error) {
	var s SolarSystem
	if err := c.get(ctx, fmt.Sprintf("/universe/systems/%d/", systemID), "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Station returns an NPC station lookup. Public.
func (c *Client) Station(ctx context.Context, stationID int64) (*Station, error) {
	var s Station
	if err := c.get(ctx, fmt.Sprintf("/universe/stations/%d/", stationID), "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Structure returns a player structure lookup. Requires
// esi-universe.read_structures.v1.
func (c *Client) Structure(ctx context.Context, structureID int64, token string) (*Structure, error) {
	var s Structure
	if err := c.get(ctx, fmt.Sprintf("/universe/structures/%d/", structureID), token, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ship returns the character's current ship. Requires
// esi-location.read_ship_type.v1.
func (c *Client) Ship(ctx context.Context, characterID int64, token string) (*Ship, error) {
	var s Ship
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/ship/", characterID), token, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Type returns a universe type lookup. Public.
func (c *Client) Type(ctx context.Context, typeID int64) (*ItemType, error) {
	var t ItemType
	if err := c.get(ctx, fmt.Sprintf("/universe/types/%d/", typeID), "", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Group returns a universe group lookup. Public.
func (c *Client) Group(ctx context.Context, groupID int64) (*ItemGroup, error) {
	var g ItemGroup
	if err := c.get(ctx, fmt.Sprintf("/universe/groups/%d/", groupID), "", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Skills returns the character's skill sheet. Requires
// esi-skills.read_skills.v1.
func (c *Client) Skills(ctx context.Context, characterID int64, token string) (*Skills, error) {
	var s Skills
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/skills/", characterID), token, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SkillQueue returns the character's skill queue in queue order. Requires
// esi-skills.read_skillqueue.v1.
func (c *Client) SkillQueue(ctx context.Context, characterID int64, token string) ([]SkillQueueEntry, error) {
	var q []SkillQueueEntry
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/skillqueue/", characterID), token, &q); err != nil {
		return nil, err
	}
	return q, nil
}

// Implants returns the character's active clone implant type IDs. Requires
// esi-clones.read_implants.v1.
func (c *Client) Implants(ctx context.Context, characterID int64, token string) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/implants/", characterID), token, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Fleet returns the character's fleet membership, or ErrNotFound when the
// character is not in a fleet. Requires esi-fleets.read_fleet.v1.
func (c *Client) Fleet(ctx context.Context, characterID int64, token string) (*FleetMembership, error) {
	var f FleetMembership
	if err := c.get(ctx, fmt.Sprintf("/characters/%d/fleet/", characterID), token, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Incursions returns the currently active incursions. Public.
func (c *Client) Incursions(ctx context.Context) ([]Incursion, error) {
	var inc []Incursion
	if err := c.get(ctx, "/incursions/", "", &inc); err != nil {
		return nil, err
	}
	return inc, nil
}
