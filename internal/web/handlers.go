package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"Hangar/internal/api/middleware"
	"Hangar/internal/core/auth"
	"Hangar/internal/core/fleet"
	"Hangar/internal/core/jobs"
	"Hangar/internal/core/pilots"
	"Hangar/internal/core/snapshots"
	"Hangar/internal/eve/esi"
)

// statusStaleAfter controls when a page view queues a background snapshot
// refresh instead of relying on the stored one.
const statusStaleAfter = 10 * time.Minute

// Handlers serves the dashboard pages.
type Handlers struct {
	templates *Templates
	esi       *esi.Client
	auth      *auth.Service
	snapshots *snapshots.Service
	jobs      *jobs.Service
}

// NewHandlers creates the dashboard page handlers
func NewHandlers(templates *Templates, esiClient *esi.Client, authService *auth.Service, snapshotService *snapshots.Service, jobService *jobs.Service) *Handlers {
	return &Handlers{
		templates: templates,
		esi:       esiClient,
		auth:      authService,
		snapshots: snapshotService,
		jobs:      jobService,
	}
}

type landingView struct {
	Pilot          *pilots.Pilot
	Players        int
	CorpName       string
	CorpTicker     string
	SecurityStatus float64
}

// LandingHandler renders the login page, with a character and corporation
// summary for pilots who already have a session.
// GET /
func (h *Handlers) LandingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := landingView{Pilot: middleware.GetPilot(r)}

	// Best effort; the login link works even when TQ is down.
	if status, err := h.esi.Status(ctx); err == nil {
		view.Players = status.Players
	}

	if view.Pilot != nil {
		char, err := h.esi.Character(ctx, view.Pilot.CharacterID)
		if err != nil {
			slog.Warn("character lookup failed", "character_id", view.Pilot.CharacterID, "error", err)
		} else {
			view.SecurityStatus = char.SecurityStatus
			if corp, err := h.esi.Corporation(ctx, char.CorporationID); err == nil {
				view.CorpName = corp.Name
				view.CorpTicker = corp.Ticker
			}
		}
	}

	h.render(w, "landing.html", view)
}

type incursionView struct {
	StagingSystem string
	State         string
	Influence     float64
	HasBoss       bool
}

type mainView struct {
	Pilot       *pilots.Pilot
	CorpName    string
	CorpTicker  string
	Online      bool
	System      string
	DockedAt    string
	ShipName    string
	ShipType    string
	ShipRole    fleet.Role
	InFleet     bool
	Incursions  []incursionView
	LastUpdated time.Time
}

// MainHandler renders the fleet dashboard: where the pilot is, what they
// fly, and the active incursions.
// GET /main
func (h *Handlers) MainHandler(w http.ResponseWriter, r *http.Request) {
	pilot := middleware.GetPilot(r)
	ctx := r.Context()

	token, ok := h.accessToken(w, r, pilot)
	if !ok {
		return
	}

	view := mainView{Pilot: pilot}

	char, err := h.esi.Character(ctx, pilot.CharacterID)
	if err != nil {
		h.renderESIError(w, "character sheet", err)
		return
	}
	if corp, err := h.esi.Corporation(ctx, char.CorporationID); err == nil {
		view.CorpName = corp.Name
		view.CorpTicker = corp.Ticker
	}

	online, err := h.esi.Online(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "online status", err)
		return
	}
	view.Online = online.Online

	loc, err := h.esi.Location(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "location", err)
		return
	}
	view.System, view.DockedAt = h.snapshots.ResolveLocation(ctx, token, loc)

	ship, err := h.esi.Ship(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "current ship", err)
		return
	}
	view.ShipName = ship.ShipName
	if hull, err := h.esi.Type(ctx, ship.ShipTypeID); err == nil {
		view.ShipType = hull.Name
		view.ShipRole = fleet.RoleForHull(hull.Name)
	}

	if _, err := h.esi.Fleet(ctx, pilot.CharacterID, token); err == nil {
		view.InFleet = true
	} else if !errors.Is(err, esi.ErrNotFound) {
		slog.Warn("fleet lookup failed", "character_id", pilot.CharacterID, "error", err)
	}

	view.Incursions = h.incursionViews(r)
	view.LastUpdated = h.refreshSnapshots(r, pilot)

	h.render(w, "main.html", view)
}

type pilotView struct {
	Pilot          *pilots.Pilot
	PortraitURL    string
	Birthday       string
	SecurityStatus float64
	CorpName       string
	Description    string
}

// PilotHandler renders the character sheet page.
// GET /pilot
func (h *Handlers) PilotHandler(w http.ResponseWriter, r *http.Request) {
	pilot := middleware.GetPilot(r)
	ctx := r.Context()

	char, err := h.esi.Character(ctx, pilot.CharacterID)
	if err != nil {
		h.renderESIError(w, "character sheet", err)
		return
	}

	view := pilotView{
		Pilot:          pilot,
		PortraitURL:    fmt.Sprintf("https://images.evetech.net/characters/%d/portrait?size=256", pilot.CharacterID),
		Birthday:       char.Birthday,
		SecurityStatus: char.SecurityStatus,
		Description:    char.Description,
	}
	if corp, err := h.esi.Corporation(ctx, char.CorporationID); err == nil {
		view.CorpName = corp.Name
	}

	h.render(w, "pilot.html", view)
}

type queueEntryView struct {
	SkillName     string
	FinishedLevel int
	FinishDate    time.Time
}

type skillsView struct {
	Pilot         *pilots.Pilot
	TotalSP       int64
	UnallocatedSP int64
	SkillCount    int
	Queue         []queueEntryView
}

// SkillsHandler renders the skill sheet and training queue.
// GET /skills
func (h *Handlers) SkillsHandler(w http.ResponseWriter, r *http.Request) {
	pilot := middleware.GetPilot(r)
	ctx := r.Context()

	token, ok := h.accessToken(w, r, pilot)
	if !ok {
		return
	}

	sheet, err := h.esi.Skills(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "skill sheet", err)
		return
	}

	queue, err := h.esi.SkillQueue(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "skill queue", err)
		return
	}

	view := skillsView{
		Pilot:         pilot,
		TotalSP:       sheet.TotalSP,
		UnallocatedSP: sheet.UnallocatedSP,
		SkillCount:    len(sheet.Skills),
	}
	for _, entry := range queue {
		name := fmt.Sprintf("%d", entry.SkillID)
		if t, err := h.esi.Type(ctx, entry.SkillID); err == nil {
			name = t.Name
		}
		view.Queue = append(view.Queue, queueEntryView{
			SkillName:     name,
			FinishedLevel: entry.FinishedLevel,
			FinishDate:    entry.FinishDate,
		})
	}

	h.render(w, "skills.html", view)
}

type implantsView struct {
	Pilot    *pilots.Pilot
	Slots    []fleet.ImplantSlot
	SetBonus string
}

// ImplantsHandler renders the active clone's implant slots.
// GET /implants
func (h *Handlers) ImplantsHandler(w http.ResponseWriter, r *http.Request) {
	pilot := middleware.GetPilot(r)
	ctx := r.Context()

	token, ok := h.accessToken(w, r, pilot)
	if !ok {
		return
	}

	typeIDs, err := h.esi.Implants(ctx, pilot.CharacterID, token)
	if err != nil {
		h.renderESIError(w, "implants", err)
		return
	}

	slots := make([]fleet.ImplantSlot, 0, len(typeIDs))
	for _, id := range typeIDs {
		name := fmt.Sprintf("%d", id)
		if t, err := h.esi.Type(ctx, id); err == nil {
			name = t.Name
		}
		slots = append(slots, fleet.ImplantSlot{TypeID: id, Name: name})
	}
	slots = fleet.PadSlots(slots)

	h.render(w, "implants.html", implantsView{
		Pilot:    pilot,
		Slots:    slots,
		SetBonus: fleet.SetBonus(slots),
	})
}

// accessToken resolves a usable access token, redirecting to the login
// flow when the stored credentials can no longer be refreshed.
func (h *Handlers) accessToken(w http.ResponseWriter, r *http.Request, pilot *pilots.Pilot) (string, bool) {
	token, err := h.auth.AccessToken(r.Context(), pilot)
	if err != nil {
		slog.Warn("token refresh failed, sending pilot back through login",
			"character_id", pilot.CharacterID, "error", err)
		http.Redirect(w, r, "/sso/login", http.StatusFound)
		return "", false
	}
	return token, true
}

// incursionViews resolves active incursions to their staging system names.
func (h *Handlers) incursionViews(r *http.Request) []incursionView {
	ctx := r.Context()
	active, err := h.esi.Incursions(ctx)
	if err != nil {
		slog.Warn("incursion lookup failed", "error", err)
		return nil
	}

	views := make([]incursionView, 0, len(active))
	for _, inc := range active {
		staging := fmt.Sprintf("%d", inc.StagingSolarSystemID)
		if system, err := h.esi.SolarSystem(ctx, inc.StagingSolarSystemID); err == nil {
			staging = system.Name
		}
		views = append(views, incursionView{
			StagingSystem: staging,
			State:         inc.State,
			Influence:     inc.Influence,
			HasBoss:       inc.HasBoss,
		})
	}
	return views
}

// refreshSnapshots queues a background snapshot refresh when the stored
// status is missing or stale, and reports when the snapshots were last
// written.
func (h *Handlers) refreshSnapshots(r *http.Request, pilot *pilots.Pilot) time.Time {
	ctx := r.Context()

	status, err := h.snapshots.Status(ctx, pilot.CharacterID)
	if err == nil && time.Since(status.LastUpdated) < statusStaleAfter {
		return status.LastUpdated
	}
	if err != nil && !errors.Is(err, snapshots.ErrStatusNotFound) {
		slog.Error("failed to read status snapshot", "character_id", pilot.CharacterID, "error", err)
		return time.Time{}
	}

	if _, err := h.jobs.EnqueueSnapshotRefresh(ctx, pilot.CharacterID); err != nil {
		slog.Error("failed to enqueue snapshot refresh", "character_id", pilot.CharacterID, "error", err)
	}
	if status != nil {
		return status.LastUpdated
	}
	return time.Time{}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.Render(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) renderESIError(w http.ResponseWriter, what string, err error) {
	slog.Error("esi request failed", "resource", what, "error", err)
	http.Error(w, "Failed to load "+what+" from ESI", http.StatusBadGateway)
}
