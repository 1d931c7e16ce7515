package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Hangar/internal/api/middleware"
	"Hangar/internal/core/pilots"
	"Hangar/internal/eve/esi"
)

// landingHandlers builds page handlers against a stub ESI server. Only the
// landing page is exercised, so the services it never touches stay nil.
func landingHandlers(t *testing.T, mux *http.ServeMux) *Handlers {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	templates, err := NewTemplates()
	require.NoError(t, err)

	return NewHandlers(templates, esi.NewClient(server.URL, "hangar-test"), nil, nil, nil)
}

func TestLandingHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"players": 25000})
	})
	mux.HandleFunc("/characters/91000001/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":            "CCP Zoetrope",
			"corporation_id":  1000169,
			"security_status": 1.25,
		})
	})
	mux.HandleFunc("/corporations/1000169/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":   "Center for Advanced Studies",
			"ticker": "CAS",
		})
	})

	t.Run("anonymous visitor gets the login link", func(t *testing.T) {
		handlers := landingHandlers(t, mux)

		rec := httptest.NewRecorder()
		handlers.LandingHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/sso/login")
		assert.Contains(t, rec.Body.String(), "25000")
		assert.NotContains(t, rec.Body.String(), "Center for Advanced Studies")
	})

	t.Run("logged-in visitor sees character and corporation", func(t *testing.T) {
		handlers := landingHandlers(t, mux)

		pilot := &pilots.Pilot{CharacterID: 91000001, CharacterName: "CCP Zoetrope", AccessToken: "token"}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(middleware.SetTestPilot(req.Context(), pilot))

		rec := httptest.NewRecorder()
		handlers.LandingHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "CCP Zoetrope")
		assert.Contains(t, body, "Center for Advanced Studies")
		assert.Contains(t, body, "[CAS]")
		assert.Contains(t, body, "1.25")
		assert.NotContains(t, body, "/sso/login")
	})
}
