package pilots

import (
	"time"
)

// Pilot is a stored EVE character credential record. One row per character;
// the primary key is the character ID issued by EVE, never generated locally.
type Pilot struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	CharacterID   int64     `json:"characterId" db:"character_id"`
	OwnerHash     string    `json:"ownerHash" db:"owner_hash"`
	CharacterName string    `json:"characterName" db:"character_name"`

	// SSO token material. AccessTokenExpires is always derived at issuance
	// time from the provider's relative expires_in, never stored as-is.
	AccessToken        string    `json:"-" db:"access_token"`
	AccessTokenExpires time.Time `json:"-" db:"access_token_expires"`
	RefreshToken       string    `json:"-" db:"refresh_token"`
}

// Authenticated reports whether the record carries usable token material.
// A pilot with no access token is never treated as logged in.
func (p *Pilot) Authenticated() bool {
	return p != nil && p.AccessToken != ""
}

// TokenExpiresWithin reports whether the access token is already expired or
// will expire within the given safety margin.
func (p *Pilot) TokenExpiresWithin(margin time.Duration) bool {
	return time.Now().Add(margin).After(p.AccessTokenExpires)
}

// ApplyToken overwrites the token fields from a fresh SSO response.
// The refresh token is only replaced when the provider supplied a new one;
// providers may omit it on refresh, in which case the stored value stands.
func (p *Pilot) ApplyToken(accessToken string, expiry time.Time, refreshToken string) {
	p.AccessToken = accessToken
	p.AccessTokenExpires = expiry
	if refreshToken != "" {
		p.RefreshToken = refreshToken
	}
}
