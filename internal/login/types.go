package login

import (
	"context"
	"time"
)

const (
	// GrantType is the OAuth2 grant used for every submission
	GrantType = "password"

	// AccessTokenKey is the store key the access token is persisted under
	AccessTokenKey = "access_token"

	// DefaultTokenPath is the token endpoint, relative to the login page
	DefaultTokenPath = "token"

	// DefaultHomePath is where a successful login navigates, relative to the login page
	DefaultHomePath = "home.html"

	// FailureMessage is shown for every failed submission
	FailureMessage = "Invalid username or password"
)

// Credentials are read from the login form at submission time and never stored
type Credentials struct {
	Username string
	Password string
}

// TokenResponse is the token endpoint's success body. Only AccessToken is
// consumed by the login flow.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Expiry returns the absolute expiry implied by ExpiresIn, or the zero time
// when the endpoint did not send one.
func (t *TokenResponse) Expiry(issuedAt time.Time) time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return issuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// TokenIssuer exchanges credentials for a token. Implementations return an
// error wrapping ErrAuthRejected, ErrMalformedResponse or ErrTransport.
type TokenIssuer interface {
	RequestToken(ctx context.Context, creds Credentials) (*TokenResponse, error)
}

// Navigator moves the user to another location after a successful login
type Navigator interface {
	Navigate(location string) error
}

// Notifier shows a blocking message to the user
type Notifier interface {
	Alert(message string)
}
