package auth

import (
	"errors"
	"fmt"
)

// ErrStateMismatch is returned when the callback's state parameter is absent
// or differs from the token stored in the caller's session. Exact string
// comparison, no tolerance; guards against CSRF and replay of a stale
// authorization response.
var ErrStateMismatch = errors.New("session token mismatch")

// ErrNotAuthenticated is returned when token material is requested for a
// pilot record that carries no access token.
var ErrNotAuthenticated = errors.New("pilot has no access token")

// ExchangeError reports a rejected code-for-token exchange. Detail carries
// the provider's error text for logging and user messaging.
type ExchangeError struct {
	Detail string
	Err    error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("sso code exchange failed: %s", e.Detail)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// VerifyError reports a failed identity lookup after a successful exchange.
type VerifyError struct {
	Detail string
	Err    error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("sso identity verification failed: %s", e.Detail)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// StoreCommitError reports a persistence failure while binding a login.
// Never surfaced to the client verbatim; the session must end unauthenticated.
type StoreCommitError struct {
	CharacterID int64
	Err         error
}

func (e *StoreCommitError) Error() string {
	return fmt.Sprintf("failed to commit pilot %d: %v", e.CharacterID, e.Err)
}

func (e *StoreCommitError) Unwrap() error { return e.Err }
