package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/devilmonastery/storefront/internal/login"
)

// OAuth2Token converts a token endpoint response into an oauth2.Token
func OAuth2Token(t *login.TokenResponse, issuedAt time.Time) *oauth2.Token {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    tokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry(issuedAt),
	}
}

// Fetch performs an authenticated GET of ref, resolved against the login
// page, sending accessToken as a bearer token. It returns the status code and
// body; non-2xx statuses are not treated as errors.
func (c *Client) Fetch(ctx context.Context, ref, accessToken string) (int, []byte, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to resolve %q: %w", ref, err)
	}

	// oauth2 wraps our own http.Client so metrics and test mocks still apply
	base := context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient())
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	c.log.Debug("GET", slog.String("url", target))
	resp, err := resty.NewWithClient(oauth2.NewClient(base, src)).R().
		SetContext(ctx).
		SetHeader("Accept", contentTypeJSON).
		Get(target)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	return resp.StatusCode(), resp.Body(), nil
}
