package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256 verifies (and, for tests and tooling, signs) tokens with a shared
// secret. The identity service and this service hold the same secret; key
// rotation is the identity service's problem.
type HS256 struct {
	secret []byte
	issuer string
}

func NewHS256(secret []byte, issuer string) *HS256 {
	return &HS256{secret: secret, issuer: issuer}
}

// Verify parses and validates a raw compact JWT and maps it to Claims.
func (v *HS256) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)

	var mc jwt.MapClaims
	token, err := parser.ParseWithClaims(raw, &mc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	return mapClaims(mc), nil
}

// Sign mints a token for the given claims. Only used by tests and local
// tooling; production tokens come from the identity service.
func (v *HS256) Sign(c Claims) (string, error) {
	now := time.Now()
	if c.IssuedAt.IsZero() {
		c.IssuedAt = now
	}
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = now.Add(time.Hour)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   v.issuer,
		"sub":   c.Subject,
		"org":   c.OrgID,
		"scope": strings.Join(c.Scopes, " "),
		"iat":   c.IssuedAt.Unix(),
		"exp":   c.ExpiresAt.Unix(),
	})
	return token.SignedString(v.secret)
}

func mapClaims(mc jwt.MapClaims) Claims {
	c := Claims{}

	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if iss, err := mc.GetIssuer(); err == nil {
		c.Issuer = iss
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if org, ok := mc["org"].(string); ok {
		c.OrgID = org
	}
	if scope, ok := mc["scope"].(string); ok {
		c.Scopes = strings.Fields(scope)
	}

	return c
}
