// Package auth implements the SSO login bridge: it glues the state-token
// handshake, the EVE SSO client, and the pilot credential store together.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"Hangar/internal/core/pilots"
)

// TokenRefreshMargin is the safety window before expiry within which a
// stored access token is refreshed rather than used directly.
const TokenRefreshMargin = 5 * time.Minute

// Service runs the login state machine and the refresh-on-demand path.
// The SSO client and pilot repository are explicit collaborators so the
// bridge can be exercised with fakes.
type Service struct {
	sso    SSOClient
	pilots pilots.PilotRepository
	secret []byte
}

// NewService creates a new session bridge service
func NewService(sso SSOClient, repo pilots.PilotRepository, secretKey string) *Service {
	return &Service{
		sso:    sso,
		pilots: repo,
		secret: []byte(secretKey),
	}
}

// BeginLogin generates a fresh CSRF state token and the authorization URL
// the caller should be redirected to. The caller stores the token in the
// browser session; nothing is persisted server-side.
func (s *Service) BeginLogin() (state, authURL string, err error) {
	state, err = GenerateStateToken(s.secret)
	if err != nil {
		return "", "", err
	}
	return state, s.sso.AuthorizationURL(state), nil
}

// CompleteLogin runs the callback half of the handshake: CSRF check,
// code exchange, identity verification, and credential-store upsert.
// storedState is the token popped (read-once) from the caller's session;
// echoedState is what the provider sent back in the redirect.
//
// On success the returned pilot is committed and the caller may bind its
// session to it. Failures are typed: ErrStateMismatch, *ExchangeError,
// *VerifyError, *StoreCommitError. No store mutation happens before
// verification succeeds.
func (s *Service) CompleteLogin(ctx context.Context, code, echoedState, storedState string) (*pilots.Pilot, error) {
	if code == "" || echoedState == "" || storedState == "" || echoedState != storedState {
		return nil, ErrStateMismatch
	}

	tok, err := s.sso.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	ident, err := s.sso.Verify(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	characterID, err := ParseCharacterID(ident.Sub)
	if err != nil {
		return nil, &VerifyError{Detail: err.Error(), Err: err}
	}

	pilot, err := s.pilots.GetByCharacterID(ctx, characterID)
	if err == pilots.ErrPilotNotFound {
		pilot = &pilots.Pilot{CharacterID: characterID}
	} else if err != nil {
		return nil, &StoreCommitError{CharacterID: characterID, Err: err}
	}

	// A differing owner hash means CCP transferred the character since the
	// last login. The fresh SSO proof supersedes the old binding, but the
	// stale refresh token must not survive the transfer.
	if pilot.OwnerHash != "" && pilot.OwnerHash != ident.Owner {
		slog.Warn("character ownership changed, replacing stored credentials",
			"character_id", characterID)
		pilot.RefreshToken = ""
	}

	pilot.OwnerHash = ident.Owner
	pilot.CharacterName = ident.Name
	pilot.ApplyToken(tok.AccessToken, tok.Expiry, tok.RefreshToken)

	saved, err := s.pilots.Upsert(ctx, pilot)
	if err != nil {
		return nil, &StoreCommitError{CharacterID: characterID, Err: err}
	}

	return saved, nil
}

// AccessToken returns a valid access token for the pilot, transparently
// refreshing when the stored token is expired or within TokenRefreshMargin
// of expiry. Refreshed token material is written back to the credential
// store before returning, so later requests reuse it instead of
// re-refreshing every call. The pilot is updated in place.
func (s *Service) AccessToken(ctx context.Context, pilot *pilots.Pilot) (string, error) {
	if !pilot.Authenticated() {
		return "", ErrNotAuthenticated
	}

	if !pilot.TokenExpiresWithin(TokenRefreshMargin) {
		return pilot.AccessToken, nil
	}

	tok, err := s.sso.Refresh(ctx, pilot.RefreshToken)
	if err != nil {
		return "", err
	}

	pilot.ApplyToken(tok.AccessToken, tok.Expiry, tok.RefreshToken)

	if err := s.pilots.UpdateTokens(ctx, pilot.CharacterID, tok.AccessToken, tok.Expiry, tok.RefreshToken); err != nil {
		return "", &StoreCommitError{CharacterID: pilot.CharacterID, Err: err}
	}

	return pilot.AccessToken, nil
}

// GetPilot loads a pilot record by character ID.
func (s *Service) GetPilot(ctx context.Context, characterID int64) (*pilots.Pilot, error) {
	return s.pilots.GetByCharacterID(ctx, characterID)
}

// ParseCharacterID extracts the numeric character ID from a subject claim
// of the form "CHARACTER:EVE:<id>".
func ParseCharacterID(sub string) (int64, error) {
	parts := strings.Split(sub, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed subject claim %q", sub)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed character id in subject claim %q", sub)
	}
	return id, nil
}
