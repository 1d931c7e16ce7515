// Package sso holds the HTTP handlers for the EVE SSO login flow.
package sso

import (
	"errors"
	"log/slog"
	"net/http"

	"Hangar/internal/core/auth"
)

// Handler serves the login, callback, and logout endpoints.
type Handler struct {
	auth *auth.Service
}

// NewHandler creates a new SSO handler
func NewHandler(authService *auth.Service) *Handler {
	return &Handler{auth: authService}
}

// HandleLogin starts the SSO handshake.
// GET /sso/login
//
// Generates the CSRF state token, stores it in the browser session, and
// redirects to the EVE SSO authorize page. The session stays a
// browser-session cookie until login completes.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, authURL, err := h.auth.BeginLogin()
	if err != nil {
		slog.Error("failed to begin login", "error", err)
		http.Error(w, "Login failed: could not start the login flow", http.StatusInternalServerError)
		return
	}

	session, err := GetCookieStore().Get(r, SessionName)
	if err != nil {
		// Undecodable cookie, e.g. after a secret rotation. Start fresh.
		session.Values = make(map[interface{}]interface{})
	}
	session.Values[SessionStateKey] = state
	if err := session.Save(r, w); err != nil {
		slog.Error("failed to save session", "error", err)
		http.Error(w, "Login failed: could not establish a session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback completes the SSO handshake.
// GET /sso/callback?code=...&state=...
//
// The stored state token is popped before validation, so a replayed
// callback always fails the CSRF check regardless of outcome.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	echoedState := r.URL.Query().Get("state")

	session, err := GetCookieStore().Get(r, SessionName)
	if err != nil {
		session.Values = make(map[interface{}]interface{})
	}

	storedState, _ := session.Values[SessionStateKey].(string)
	delete(session.Values, SessionStateKey)
	if err := session.Save(r, w); err != nil {
		slog.Error("failed to pop state token", "error", err)
		http.Error(w, "Login failed: could not update the session", http.StatusInternalServerError)
		return
	}

	pilot, err := h.auth.CompleteLogin(r.Context(), code, echoedState, storedState)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	session.Values[SessionCharacterIDKey] = pilot.CharacterID
	session.Options.MaxAge = PersistentSessionMaxAge
	if err := session.Save(r, w); err != nil {
		slog.Error("failed to bind session", "character_id", pilot.CharacterID, "error", err)
		http.Error(w, "Login failed: could not bind the session", http.StatusInternalServerError)
		return
	}

	slog.Info("pilot logged in", "character_id", pilot.CharacterID, "character_name", pilot.CharacterName)
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout drops the session. Idempotent.
// GET /sso/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// writeLoginError maps the typed bridge failures onto HTTP responses.
func (h *Handler) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	var exchangeErr *auth.ExchangeError
	var verifyErr *auth.VerifyError
	var commitErr *auth.StoreCommitError

	switch {
	case errors.Is(err, auth.ErrStateMismatch):
		slog.Warn("state token mismatch on callback", "remote", r.RemoteAddr)
		http.Error(w, "Login failed: Session Token Mismatch", http.StatusForbidden)

	case errors.As(err, &exchangeErr):
		slog.Warn("token exchange rejected", "detail", exchangeErr.Detail)
		http.Error(w, "Login failed: "+exchangeErr.Detail, http.StatusForbidden)

	case errors.As(err, &verifyErr):
		slog.Warn("identity verification rejected", "detail", verifyErr.Detail)
		http.Error(w, "Login failed: "+verifyErr.Detail, http.StatusForbidden)

	case errors.As(err, &commitErr):
		// Credentials could not be committed, so the session must not
		// pretend the login happened.
		slog.Error("credential store commit failed", "character_id", commitErr.CharacterID, "error", commitErr)
		clearSession(w, r)
		http.Error(w, "Login failed: could not save credentials", http.StatusInternalServerError)

	default:
		slog.Error("login failed", "error", err)
		http.Error(w, "Login failed: internal error", http.StatusInternalServerError)
	}
}

func clearSession(w http.ResponseWriter, r *http.Request) {
	session, err := GetCookieStore().Get(r, SessionName)
	if err != nil {
		session.Values = make(map[interface{}]interface{})
	}
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		slog.Error("failed to clear session", "error", err)
	}
}
