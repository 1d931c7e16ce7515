package sso

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Hangar/internal/core/auth"
	"Hangar/internal/core/pilots"
)

// MockSSOClient is a mock implementation of auth.SSOClient
type MockSSOClient struct {
	mock.Mock
}

func (m *MockSSOClient) AuthorizationURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockSSOClient) Exchange(ctx context.Context, code string) (*auth.TokenResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

func (m *MockSSOClient) Verify(ctx context.Context, accessToken string) (*auth.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

func (m *MockSSOClient) Refresh(ctx context.Context, refreshToken string) (*auth.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

// MockPilotRepository is a mock implementation of pilots.PilotRepository
type MockPilotRepository struct {
	mock.Mock
}

func (m *MockPilotRepository) GetByCharacterID(ctx context.Context, characterID int64) (*pilots.Pilot, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pilots.Pilot), args.Error(1)
}

func (m *MockPilotRepository) Upsert(ctx context.Context, pilot *pilots.Pilot) (*pilots.Pilot, error) {
	args := m.Called(ctx, pilot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pilots.Pilot), args.Error(1)
}

func (m *MockPilotRepository) UpdateTokens(ctx context.Context, characterID int64, accessToken string, expiry time.Time, refreshToken string) error {
	args := m.Called(ctx, characterID, accessToken, expiry, refreshToken)
	return args.Error(0)
}

func init() {
	if err := InitCookieStore("0123456789abcdef0123456789abcdef"); err != nil {
		panic(err)
	}
}

func newHandler(ssoClient *MockSSOClient, repo *MockPilotRepository) *Handler {
	return NewHandler(auth.NewService(ssoClient, repo, "0123456789abcdef0123456789abcdef"))
}

// doLogin runs HandleLogin and returns the state it stored plus the
// session cookies to replay on the callback.
func doLogin(t *testing.T, handler *Handler, ssoClient *MockSSOClient) (string, []*http.Cookie) {
	t.Helper()

	var capturedState string
	ssoClient.On("AuthorizationURL", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { capturedState = args.String(0) }).
		Return("https://login.example.com/authorize")

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, httptest.NewRequest(http.MethodGet, "/sso/login", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://login.example.com/authorize", rec.Header().Get("Location"))
	require.NotEmpty(t, capturedState)

	return capturedState, rec.Result().Cookies()
}

func callbackRequest(code, state string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/sso/callback?code="+code+"&state="+state, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestLoginCallbackFlow(t *testing.T) {
	ssoClient := new(MockSSOClient)
	repo := new(MockPilotRepository)
	handler := newHandler(ssoClient, repo)

	state, cookies := doLogin(t, handler, ssoClient)

	expiry := time.Now().Add(20 * time.Minute)
	ssoClient.On("Exchange", mock.Anything, "auth-code").
		Return(&auth.TokenResponse{AccessToken: "access-token", RefreshToken: "refresh-token", Expiry: expiry}, nil)
	ssoClient.On("Verify", mock.Anything, "access-token").
		Return(&auth.Identity{Sub: "CHARACTER:EVE:91000001", Owner: "owner-hash", Name: "CCP Zoetrope"}, nil)
	repo.On("GetByCharacterID", mock.Anything, int64(91000001)).Return(nil, pilots.ErrPilotNotFound)
	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(&pilots.Pilot{CharacterID: 91000001, CharacterName: "CCP Zoetrope"}, nil)

	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, callbackRequest("auth-code", state, cookies))

	// A completed login always lands on the site root.
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	repo.AssertExpectations(t)
}

func TestCallbackStateMismatch(t *testing.T) {
	ssoClient := new(MockSSOClient)
	repo := new(MockPilotRepository)
	handler := newHandler(ssoClient, repo)

	_, cookies := doLogin(t, handler, ssoClient)

	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, callbackRequest("auth-code", "forged-state", cookies))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login failed: Session Token Mismatch")
	ssoClient.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestCallbackWithoutSession(t *testing.T) {
	handler := newHandler(new(MockSSOClient), new(MockPilotRepository))

	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, callbackRequest("auth-code", "some-state", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login failed: Session Token Mismatch")
}

func TestCallbackReplayFailsAfterStatePop(t *testing.T) {
	ssoClient := new(MockSSOClient)
	repo := new(MockPilotRepository)
	handler := newHandler(ssoClient, repo)

	state, cookies := doLogin(t, handler, ssoClient)

	// First callback fails at the provider, consuming the state token.
	ssoClient.On("Exchange", mock.Anything, "auth-code").
		Return(nil, &auth.ExchangeError{Detail: "invalid authorization code"}).Once()

	first := httptest.NewRecorder()
	handler.HandleCallback(first, callbackRequest("auth-code", state, cookies))
	require.Equal(t, http.StatusForbidden, first.Code)
	assert.Contains(t, first.Body.String(), "Login failed: invalid authorization code")

	// Replaying with the updated session must hit the CSRF check, not the
	// provider again.
	second := httptest.NewRecorder()
	handler.HandleCallback(second, callbackRequest("auth-code", state, first.Result().Cookies()))
	assert.Equal(t, http.StatusForbidden, second.Code)
	assert.Contains(t, second.Body.String(), "Login failed: Session Token Mismatch")
}

func TestCallbackStoreFailureEndsSession(t *testing.T) {
	ssoClient := new(MockSSOClient)
	repo := new(MockPilotRepository)
	handler := newHandler(ssoClient, repo)

	state, cookies := doLogin(t, handler, ssoClient)

	expiry := time.Now().Add(20 * time.Minute)
	ssoClient.On("Exchange", mock.Anything, "auth-code").
		Return(&auth.TokenResponse{AccessToken: "access-token", Expiry: expiry}, nil)
	ssoClient.On("Verify", mock.Anything, "access-token").
		Return(&auth.Identity{Sub: "CHARACTER:EVE:91000001", Owner: "owner-hash", Name: "CCP Zoetrope"}, nil)
	repo.On("GetByCharacterID", mock.Anything, int64(91000001)).Return(nil, pilots.ErrPilotNotFound)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, callbackRequest("auth-code", state, cookies))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The session cookie must be expired, not bound to the character.
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, -1, sessionCookie.MaxAge)
}

func TestLogoutIsIdempotent(t *testing.T) {
	handler := newHandler(new(MockSSOClient), new(MockPilotRepository))

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, httptest.NewRequest(http.MethodGet, "/sso/logout", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
