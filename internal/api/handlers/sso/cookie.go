package sso

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
)

// MinCookieSecretLength is the minimum cookie signing secret size in bytes.
const MinCookieSecretLength = 32

// SessionName is the browser session cookie.
const SessionName = "hangar_session"

// Session value keys.
const (
	SessionStateKey       = "sso_state"
	SessionCharacterIDKey = "character_id"
)

// PersistentSessionMaxAge is how long a logged-in session cookie lives.
const PersistentSessionMaxAge = 30 * 24 * 60 * 60 // 30 days in seconds

var (
	// Global singleton cookie store
	cookieStoreInstance *sessions.CookieStore
	cookieStoreOnce     sync.Once
	cookieStoreErr      error
)

// InitCookieStore initializes the global cookie store singleton
// Must be called once at application startup before any handlers are created
func InitCookieStore(secret string) error {
	cookieStoreOnce.Do(func() {
		if len(secret) < MinCookieSecretLength {
			cookieStoreErr = fmt.Errorf("SECRET_KEY must be at least %d bytes for security", MinCookieSecretLength)
			return
		}
		store := sessions.NewCookieStore([]byte(secret))
		store.Options = &sessions.Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		cookieStoreInstance = store
	})
	return cookieStoreErr
}

// GetCookieStore returns the global cookie store singleton
// Panics if InitCookieStore has not been called successfully
func GetCookieStore() *sessions.CookieStore {
	if cookieStoreInstance == nil {
		panic("cookie store not initialized - call InitCookieStore first")
	}
	return cookieStoreInstance
}

// SessionCharacterID returns the character ID bound to the request's
// session, or 0 when the session is anonymous.
func SessionCharacterID(r *http.Request) int64 {
	session, err := GetCookieStore().Get(r, SessionName)
	if err != nil {
		return 0
	}
	id, _ := session.Values[SessionCharacterIDKey].(int64)
	return id
}
