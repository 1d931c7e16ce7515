// Package sso wraps the EVE SSO authorization server: authorization URL
// construction, code-for-token exchange, identity verification, and token
// refresh. The client is stateless; credentials are passed per call.
package sso

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"Hangar/internal/core/auth"
)

// DefaultScopes is the fixed scope set every login requests. Downstream
// dashboard pages depend on exactly this set being granted.
var DefaultScopes = []string{
	"publicData",
	"esi-universe.read_structures.v1",
	"esi-location.read_online.v1",
	"esi-location.read_location.v1",
	"esi-location.read_ship_type.v1",
	"esi-skills.read_skills.v1",
	"esi-skills.read_skillqueue.v1",
	"esi-fleets.read_fleet.v1",
	"esi-fleets.write_fleet.v1",
	"esi-characters.read_standings.v1",
	"esi-clones.read_implants.v1",
}

// Config holds the SSO application registration and endpoint URLs.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	AuthorizeURL string
	TokenURL     string
	VerifyURL    string
	UserAgent    string
	// Scopes defaults to DefaultScopes when empty.
	Scopes []string
}

// Client implements auth.SSOClient against EVE SSO.
type Client struct {
	conf      *oauth2.Config
	verifyURL string
	userAgent string
	http      *http.Client
}

// NewClient creates a new EVE SSO client
func NewClient(cfg Config) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		verifyURL: cfg.VerifyURL,
		userAgent: cfg.UserAgent,
		http:      httpClient,
	}
}

// AuthorizationURL builds the provider redirect target embedding the CSRF
// state and the configured scope set. No network call.
func (c *Client) AuthorizationURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// Exchange performs the authorization-code-for-token exchange.
func (c *Client) Exchange(ctx context.Context, code string) (*auth.TokenResponse, error) {
	tok, err := c.conf.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, &auth.ExchangeError{Detail: providerDetail(err), Err: err}
	}
	return tokenResponse(tok), nil
}

// Refresh mints a new access token from a stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.TokenResponse, error) {
	src := c.conf.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &auth.ExchangeError{Detail: providerDetail(err), Err: err}
	}
	return tokenResponse(tok), nil
}

// Verify asks the provider who the given access token belongs to. The token
// is treated as an opaque bearer credential; identity comes from the verify
// endpoint, never from parsing the token locally.
func (c *Client) Verify(ctx context.Context, accessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, &auth.VerifyError{Detail: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &auth.VerifyError{Detail: err.Error(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("verify endpoint returned status %d", resp.StatusCode)
		return nil, &auth.VerifyError{Detail: detail, Err: errors.New(detail)}
	}

	var claims struct {
		Sub   string `json:"sub"`
		Owner string `json:"owner"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, &auth.VerifyError{Detail: "malformed verify response", Err: err}
	}
	if claims.Sub == "" {
		err := errors.New("verify response missing subject claim")
		return nil, &auth.VerifyError{Detail: err.Error(), Err: err}
	}

	return &auth.Identity{Sub: claims.Sub, Owner: claims.Owner, Name: claims.Name}, nil
}

// oauthContext makes the oauth2 library use our timeout-bounded HTTP client.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

// tokenResponse converts an oauth2 token. The library derives Expiry from
// the provider's relative expires_in at issuance, which keeps the stored
// expiry independent of wall-clock drift during request processing.
func tokenResponse(tok *oauth2.Token) *auth.TokenResponse {
	return &auth.TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}

// providerDetail extracts the provider's human-readable error text.
func providerDetail(err error) string {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.ErrorDescription != "" {
			return rerr.ErrorDescription
		}
		if rerr.ErrorCode != "" {
			return rerr.ErrorCode
		}
		if body := strings.TrimSpace(string(rerr.Body)); body != "" {
			return body
		}
	}
	return err.Error()
}
