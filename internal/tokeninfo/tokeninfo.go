// Package tokeninfo reads display information out of stored access tokens.
// Tokens are opaque to the login flow; when one happens to be a JWT its
// claims are decoded without verification, since only the issuer can verify it.
package tokeninfo

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned for an empty token
	ErrNoToken = errors.New("no token")

	// ErrOpaqueToken is returned when the token is not a JWT
	ErrOpaqueToken = errors.New("token is not a JWT")
)

// Info is what can be shown about a stored token
type Info struct {
	Subject   string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carries an exp claim
func (i *Info) HasExpiry() bool {
	return !i.ExpiresAt.IsZero()
}

// IsExpired reports whether the token expired before now. Tokens without an
// exp claim never expire as far as the client can tell.
func (i *Info) IsExpired(now time.Time) bool {
	return i.HasExpiry() && now.After(i.ExpiresAt)
}

// Inspect decodes the claims of a JWT access token
func Inspect(token string) (*Info, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrOpaqueToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrOpaqueToken
	}

	info := &Info{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}

	// Username can be in either "username", "email" or "preferred_username"
	for _, key := range []string{"username", "email", "preferred_username"} {
		if v, ok := claims[key].(string); ok && v != "" {
			info.Username = v
			break
		}
	}
	if info.Username == "" {
		info.Username = info.Subject
	}

	return info, nil
}
