package cli

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/storage"
)

const devTokenURL = "http://localhost:8000/token"

// setupHome isolates config and store files under a temp dir
func setupHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("STOREFRONT_CONFIG", filepath.Join(dir, ".storefront"))
	t.Setenv("STOREFRONT_URL", "")
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func devStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := NewContextStore("dev")
	require.NoError(t, err)
	return s
}

func TestContextStorePath(t *testing.T) {
	setupHome(t)

	s, err := NewContextStore("staging")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "storefront", "storage-staging.json"), s.Path())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{time.Minute + 30*time.Second, "1 minute"},
		{2*time.Hour + 5*time.Minute, "2 hours and 5 minutes"},
		{49*time.Hour + 3*time.Minute, "2 days, 1 hour and 3 minutes"},
		{-90 * time.Minute, "1 hour and 30 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, formatDuration(tt.d))
		})
	}
}

func TestConfigContexts(t *testing.T) {
	setupHome(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "dev", config.CurrentContext)

	config.AddContext("shop", NewContext("https://shop.example.com/login.html"))
	require.NoError(t, config.SetCurrentContext("shop"))
	require.Error(t, config.SetCurrentContext("missing"))
	require.Error(t, config.DeleteContext("shop"), "current context cannot be deleted")
	require.NoError(t, config.DeleteContext("dev"))
	require.NoError(t, SaveConfig(config))

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "shop", reloaded.CurrentContext)

	ctx, err := reloaded.GetCurrentContext()
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/login.html", ctx.PageURL())
	require.Equal(t, "token", ctx.Server.TokenPath)
	require.Equal(t, "home.html", ctx.HomePath())

	t.Setenv("STOREFRONT_URL", "http://override.test/")
	require.Equal(t, "http://override.test/", ctx.PageURL())
}

func TestConfigCommands(t *testing.T) {
	setupHome(t)

	out, _, err := execute(t, "", "config", "add-context", "staging", "--url", "https://staging.test/app/", "--timeout", "5s")
	require.NoError(t, err)
	require.Contains(t, out, `Context "staging" added/updated`)

	out, _, err = execute(t, "", "config", "use-context", "staging")
	require.NoError(t, err)
	require.Contains(t, out, `Switched to context "staging" (https://staging.test/app/)`)

	out, _, err = execute(t, "", "config", "current-context")
	require.NoError(t, err)
	require.Equal(t, "staging\thttps://staging.test/app/\n", out)

	out, _, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "Login Page: https://staging.test/app/")
	require.Contains(t, out, "Timeout: 5s")

	out, _, err = execute(t, "", "config", "list-contexts")
	require.NoError(t, err)
	require.Regexp(t, `\*\s+staging\s+https://staging.test/app/`, out)

	_, _, err = execute(t, "", "config", "delete-context", "staging")
	require.Error(t, err, "current context cannot be deleted")
}

func TestDeleteContextRemovesStoredToken(t *testing.T) {
	setupHome(t)

	_, _, err := execute(t, "", "config", "add-context", "staging", "--url", "https://staging.test/app/")
	require.NoError(t, err)

	staging, err := NewContextStore("staging")
	require.NoError(t, err)
	require.NoError(t, staging.Set(login.AccessTokenKey, "tok123"))

	out, _, err := execute(t, "", "config", "delete-context", "staging")
	require.NoError(t, err)
	require.Contains(t, out, "along with its stored token")

	_, err = os.Stat(staging.Path())
	require.True(t, os.IsNotExist(err))

	_, _, err = execute(t, "", "config", "delete-context", "staging")
	require.Error(t, err)
}

func TestLoginCommand(t *testing.T) {
	setupHome(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var gotBody string
	httpmock.RegisterResponder(http.MethodPost, devTokenURL, func(req *http.Request) (*http.Response, error) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(req.Body)
		gotBody = buf.String()
		return httpmock.NewJsonResponse(http.StatusOK, map[string]string{"access_token": "tok123"})
	})

	out, _, err := execute(t, "", "auth", "login", "--username", "a b", "--password", "p&q")
	require.NoError(t, err)
	require.Equal(t, "grant_type=password&username=a%20b&password=p%26q", gotBody)
	require.Contains(t, out, "Continue at: http://localhost:8000/home.html")

	stored, err := devStore(t).Get(login.AccessTokenKey)
	require.NoError(t, err)
	require.Equal(t, "tok123", stored)

	out, _, err = execute(t, "", "auth", "token")
	require.NoError(t, err)
	require.Equal(t, "tok123\n", out)

	out, _, err = execute(t, "", "auth", "status")
	require.NoError(t, err)
	require.Contains(t, out, "Token is opaque")

	out, _, err = execute(t, "", "auth", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "logged out")

	out, _, err = execute(t, "", "auth", "status")
	require.NoError(t, err)
	require.Equal(t, "Not logged in\n", out)
}

func TestLoginCommandShowsExpiry(t *testing.T) {
	setupHome(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, devTokenURL,
		httpmock.NewStringResponder(http.StatusOK, `{"access_token":"tok123","token_type":"bearer","expires_in":3600}`))

	out, _, err := execute(t, "", "auth", "login", "-u", "alice", "-p", "pw")
	require.NoError(t, err)
	require.Contains(t, out, "Token expires in 59 minutes")
}

func TestLoginCommandRejected(t *testing.T) {
	setupHome(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, devTokenURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`))

	out, errOut, err := execute(t, "", "auth", "login", "-u", "alice", "-p", "wrong")
	require.ErrorIs(t, err, login.ErrAuthRejected)
	require.Contains(t, errOut, "Invalid username or password")
	require.NotContains(t, out, "Continue at")

	_, getErr := devStore(t).Get(login.AccessTokenKey)
	require.ErrorIs(t, getErr, storage.ErrNotFound)
}

func TestLoginCommandPrompts(t *testing.T) {
	setupHome(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var gotBody string
	httpmock.RegisterResponder(http.MethodPost, devTokenURL, func(req *http.Request) (*http.Response, error) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(req.Body)
		gotBody = buf.String()
		return httpmock.NewJsonResponse(http.StatusOK, map[string]string{"access_token": "tok"})
	})

	_, errOut, err := execute(t, "alice\nse cret\n", "auth", "login")
	require.NoError(t, err)
	require.Contains(t, errOut, "Username: ")
	require.Contains(t, errOut, "Password: ")
	require.Equal(t, "grant_type=password&username=alice&password=se%20cret", gotBody)
}

func TestGetCommand(t *testing.T) {
	setupHome(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	_, _, err := execute(t, "", "get", "products/")
	require.ErrorContains(t, err, "not logged in")

	require.NoError(t, devStore(t).Set(login.AccessTokenKey, "tok123"))

	var gotAuth string
	httpmock.RegisterResponder(http.MethodGet, "http://localhost:8000/products/", func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return httpmock.NewStringResponse(http.StatusOK, `[{"name":"lamp","price":10}]`), nil
	})

	out, _, err := execute(t, "", "get", "products/")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok123", gotAuth)
	require.JSONEq(t, `[{"name":"lamp","price":10}]`, out)
}
