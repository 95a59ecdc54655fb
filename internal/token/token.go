// Package token provides local, display-only inspection of access
// credentials. The server remains the sole authority on validity; nothing
// here is used to gate a request.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info describes what a credential claims about itself
type Info struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect parses a JWT access credential without verifying its signature
// and returns its claims. The client has no signing key, so this is
// informational only (shown by the status command).
func Inspect(raw string) (*Info, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &Info{}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}

// ExpiresIn returns the time remaining until the claimed expiry, which may
// be negative for an already-expired credential. The second return value is
// false when the token carries no expiry claim.
func (i *Info) ExpiresIn(now time.Time) (time.Duration, bool) {
	if i.ExpiresAt.IsZero() {
		return 0, false
	}
	return i.ExpiresAt.Sub(now), true
}
