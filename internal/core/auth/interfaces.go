package auth

import (
	"context"
	"time"
)

// TokenResponse is the adapter-neutral result of a token exchange or refresh.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string // may be empty: providers can omit it on refresh
	// Expiry is the absolute expiration instant, derived by the client from
	// the provider's relative expires_in at issuance time.
	Expiry time.Time
}

// Identity is what the provider reports about a freshly issued token.
type Identity struct {
	// Sub is the subject claim, e.g. "CHARACTER:EVE:92168909".
	Sub string
	// Owner is an opaque hash confirming continued ownership of the
	// character; it changes when the character is transferred.
	Owner string
	// Name is the character's display name.
	Name string
}

// SSOClient wraps the EVE SSO authorization server. Implementations are
// stateless: every credential-bearing call takes the credential as an
// explicit argument, so concurrent handshakes never share token state.
type SSOClient interface {
	// AuthorizationURL builds the redirect target embedding the given state
	// and the client's configured scope set. No network call.
	AuthorizationURL(state string) string

	// Exchange performs the authorization-code-for-token exchange.
	// Fails with *ExchangeError carrying the provider's error detail.
	Exchange(ctx context.Context, code string) (*TokenResponse, error)

	// Verify asks the provider who the given access token belongs to.
	// Fails with *VerifyError on network or provider error.
	Verify(ctx context.Context, accessToken string) (*Identity, error)

	// Refresh mints a new access token from a stored refresh token.
	// Fails with *ExchangeError on rejection.
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
}
