package esi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "hangar-test")
}

func TestGetHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "hangar-test", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"players": 25000})
	})

	client := testServer(t, mux)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25000, status.Players)
}

func TestAuthenticatedGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/91000001/online/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]bool{"online": true})
	})

	client := testServer(t, mux)

	online, err := client.Online(context.Background(), 91000001, "access-token")
	require.NoError(t, err)
	assert.True(t, online.Online)
}

func TestFleetNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/91000001/fleet/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Character is not in a fleet"})
	})

	client := testServer(t, mux)

	_, err := client.Fleet(context.Background(), 91000001, "access-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/91000001/skills/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"token is expired"}`))
	})

	client := testServer(t, mux)

	_, err := client.Skills(context.Background(), 91000001, "expired")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "token is expired")
}

func TestSkills(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/91000001/skills/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"total_sp":       52000000,
			"unallocated_sp": 150000,
			"skills": []map[string]interface{}{
				{"skill_id": 3339, "active_skill_level": 5, "trained_skill_level": 5, "skillpoints_in_skill": 1280000},
			},
		})
	})

	client := testServer(t, mux)

	sheet, err := client.Skills(context.Background(), 91000001, "access-token")
	require.NoError(t, err)
	assert.Equal(t, int64(52000000), sheet.TotalSP)
	assert.Equal(t, int64(150000), sheet.UnallocatedSP)
	require.Len(t, sheet.Skills, 1)
	assert.Equal(t, int64(3339), sheet.Skills[0].SkillID)
	assert.Equal(t, 5, sheet.Skills[0].ActiveSkillLevel)
}

func TestImplants(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/91000001/implants/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]int64{22107, 22108, 33516})
	})

	client := testServer(t, mux)

	ids, err := client.Implants(context.Background(), 91000001, "access-token")
	require.NoError(t, err)
	assert.Equal(t, []int64{22107, 22108, 33516}, ids)
}
