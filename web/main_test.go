package main

import (
	"bytes"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/devilmonastery/storefront/internal/client"
	"github.com/devilmonastery/storefront/web/internal/handlers"
	"github.com/devilmonastery/storefront/web/internal/middleware"
	"github.com/devilmonastery/storefront/web/internal/render"
	"github.com/devilmonastery/storefront/web/internal/session"
)

const tokenURL = "https://shop.test/app/token"

func newTestServer(t *testing.T, opts handlers.Options) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := client.NewClient(client.Config{PageURL: "https://shop.test/app/login.html"})
	require.NoError(t, err)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	templates, err := render.LoadTemplates()
	require.NoError(t, err)

	mgr := session.NewManager([]byte("0123456789abcdef0123456789abcdef"), session.Options{})
	h := handlers.New(c, mgr, templates, opts, log)

	srv := httptest.NewServer(createRouter(h, middleware.NewAuthMiddleware(mgr, handlers.LoginPagePath, log), log))
	t.Cleanup(srv.Close)
	return srv
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t, handlers.Options{})

	var body string
	httpmock.RegisterResponder(http.MethodPost, tokenURL, func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		return httpmock.NewStringResponse(http.StatusOK, `{"access_token":"tok123"}`), nil
	})

	hc := noRedirectClient()
	resp, err := hc.PostForm(srv.URL+"/login", url.Values{"username": {"a b"}, "password": {"p&q"}})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/home.html", resp.Header.Get("Location"))
	require.Equal(t, "grant_type=password&username=a%20b&password=p%26q", body)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/home.html", nil)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	home, err := hc.Do(req)
	require.NoError(t, err)
	defer home.Body.Close()
	require.Equal(t, http.StatusOK, home.StatusCode)
}

func TestConfiguredHomePathIsRouted(t *testing.T) {
	srv := newTestServer(t, handlers.Options{HomePath: "account/home.html"})

	httpmock.RegisterResponder(http.MethodPost, tokenURL,
		httpmock.NewStringResponder(http.StatusOK, `{"access_token":"tok123"}`))

	hc := noRedirectClient()
	resp, err := hc.PostForm(srv.URL+"/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "/account/home.html", resp.Header.Get("Location"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/account/home.html", nil)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	home, err := hc.Do(req)
	require.NoError(t, err)
	defer home.Body.Close()
	require.Equal(t, http.StatusOK, home.StatusCode)

	missing, err := hc.Get(srv.URL + "/home.html")
	require.NoError(t, err)
	missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestLoginRejected(t *testing.T) {
	srv := newTestServer(t, handlers.Options{})

	httpmock.RegisterResponder(http.MethodPost, tokenURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"invalid_grant"}`))

	hc := noRedirectClient()
	resp, err := hc.PostForm(srv.URL+"/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login.html?reason=invalid", resp.Header.Get("Location"))
	require.Empty(t, resp.Cookies())

	page, err := hc.Get(srv.URL + resp.Header.Get("Location"))
	require.NoError(t, err)
	defer page.Body.Close()
	b, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "Invalid username or password")
}

func TestProtectedAndPublicRoutes(t *testing.T) {
	srv := newTestServer(t, handlers.Options{})
	hc := noRedirectClient()

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{path: "/", status: http.StatusSeeOther, location: "/login.html"},
		{path: "/home.html", status: http.StatusSeeOther, location: "/login.html"},
		{path: "/login.html", status: http.StatusOK},
		{path: "/health", status: http.StatusOK},
		{path: "/metrics", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := hc.Get(srv.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)
			require.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestLoadSessionSecret(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	want := []byte(strings.Repeat("k", 32))

	got, err := loadSessionSecret(base64.StdEncoding.EncodeToString(want), log)
	require.NoError(t, err)
	require.Equal(t, want, got)

	random, err := loadSessionSecret("not base64!", log)
	require.NoError(t, err)
	require.Len(t, random, 32)
}
