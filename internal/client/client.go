package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/devilmonastery/storefront/internal/login"
)

// Config describes where the login page lives and how to reach its token endpoint
type Config struct {
	// PageURL is the URL of the login page. Relative paths such as the
	// token endpoint resolve against it the way a browser would.
	PageURL string

	// TokenPath is the token endpoint relative to PageURL (default "token")
	TokenPath string

	// Timeout bounds each request. Zero means wait indefinitely.
	Timeout time.Duration

	// Transport is the base round tripper (default http.DefaultTransport)
	Transport http.RoundTripper
}

// Client talks to the storefront's token endpoint
type Client struct {
	rest     *resty.Client
	pageURL  *url.URL
	tokenURL string
	inflight singleflight.Group
	log      *slog.Logger
}

// NewClient creates a token endpoint client. No retries are configured: a
// credential submission is sent exactly once.
func NewClient(cfg Config) (*Client, error) {
	if cfg.PageURL == "" {
		return nil, fmt.Errorf("page URL cannot be empty")
	}

	pageURL, err := url.Parse(cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}
	if !pageURL.IsAbs() {
		return nil, fmt.Errorf("page URL %q must be absolute", cfg.PageURL)
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = login.DefaultTokenPath
	}

	tokenURL, err := resolve(pageURL, tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token endpoint: %w", err)
	}

	rest := resty.New().
		SetTransport(NewMetricsTransport(cfg.Transport)).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &Client{
		rest:     rest,
		pageURL:  pageURL,
		tokenURL: tokenURL,
		log:      slog.Default().With(slog.String("component", "token-client")),
	}, nil
}

// Resolve returns ref resolved against the login page URL
func (c *Client) Resolve(ref string) (string, error) {
	return resolve(c.pageURL, ref)
}

// TokenURL returns the absolute token endpoint URL
func (c *Client) TokenURL() string {
	return c.tokenURL
}

// HTTPClient returns the underlying http.Client (tests attach mocks to it)
func (c *Client) HTTPClient() *http.Client {
	return c.rest.GetClient()
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
