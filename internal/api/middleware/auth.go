package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	ssohandler "Hangar/internal/api/handlers/sso"
	"Hangar/internal/core/pilots"
)

// Context keys for storing pilot information
type contextKey string

const (
	// PilotKey holds the *pilots.Pilot loaded for the session.
	PilotKey contextKey = "pilot"
)

// PilotLoader loads pilot records for authenticated sessions.
type PilotLoader interface {
	GetPilot(ctx context.Context, characterID int64) (*pilots.Pilot, error)
}

// SessionAuthMiddleware resolves the browser session cookie into a pilot
// record for downstream handlers.
type SessionAuthMiddleware struct {
	loader PilotLoader
}

// NewSessionAuthMiddleware creates a new session auth middleware
func NewSessionAuthMiddleware(loader PilotLoader) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{loader: loader}
}

// RequireAuth ensures the session is bound to a known pilot. Anonymous or
// stale sessions are bounced to the landing page, where the login link
// lives, instead of getting a bare 401.
func (m *SessionAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		characterID := ssohandler.SessionCharacterID(r)
		if characterID == 0 {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		pilot, err := m.loader.GetPilot(r.Context(), characterID)
		if err != nil {
			if !errors.Is(err, pilots.ErrPilotNotFound) {
				slog.Error("failed to load session pilot", "character_id", characterID, "error", err)
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		// A record with no access token is never treated as logged in,
		// even when a session cookie still points at it.
		if !pilot.Authenticated() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), PilotKey, pilot)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the pilot when the session has one, but lets
// anonymous requests through. Used by the landing page.
func (m *SessionAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		characterID := ssohandler.SessionCharacterID(r)
		if characterID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		pilot, err := m.loader.GetPilot(r.Context(), characterID)
		if err != nil || !pilot.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), PilotKey, pilot)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPilot extracts the session pilot from the request context.
// Returns nil when the request is anonymous.
func GetPilot(r *http.Request) *pilots.Pilot {
	pilot, _ := r.Context().Value(PilotKey).(*pilots.Pilot)
	return pilot
}

// SetTestPilot sets the pilot in the context for testing purposes
func SetTestPilot(ctx context.Context, pilot *pilots.Pilot) context.Context {
	return context.WithValue(ctx, PilotKey, pilot)
}
