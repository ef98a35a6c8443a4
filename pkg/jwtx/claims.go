// Package jwtx verifies the bearer tokens minted by the platform identity
// service. This service never issues tokens for end users; it only checks
// them at the HTTP boundary and extracts the subject, organization and
// scopes for downstream handlers.
package jwtx

import (
	"errors"
	"time"
)

var (
	ErrTokenMalformed = errors.New("jwtx: malformed token")
	ErrTokenInvalid   = errors.New("jwtx: invalid token")
	ErrTokenExpired   = errors.New("jwtx: token expired")
)

// Claims is the verified subset of the identity service's token payload.
type Claims struct {
	Subject   string    // admin user id
	OrgID     string    // owning organization (tenant) id
	Scopes    []string  // space-delimited "scope" claim, split
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateExpiry reports whether the token is still within its lifetime.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt.IsZero() || time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// HasScope reports whether the claims carry the given scope.
func (c Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}
