package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/storage"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// carryCookies copies the cookies set on rec into a new request
func carryCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/home.html", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("issuer-secret"))
	require.NoError(t, err)
	return token
}

func TestStoreRoundTrip(t *testing.T) {
	m := NewManager(testSecret, Options{})

	rec := httptest.NewRecorder()
	store := m.Store(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

	_, err := store.Get(login.AccessTokenKey)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Set(login.AccessTokenKey, "tok123"))
	require.NotEmpty(t, rec.Result().Cookies())

	next := carryCookies(t, rec)
	token, err := m.GetToken(next)
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
	require.True(t, m.HasToken(next))
}

func TestStoreDelete(t *testing.T) {
	m := NewManager(testSecret, Options{})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Store(httptest.NewRequest(http.MethodPost, "/login", nil), rec).Set(login.AccessTokenKey, "tok123"))

	next := carryCookies(t, rec)
	rec2 := httptest.NewRecorder()
	require.NoError(t, m.Store(next, rec2).Delete(login.AccessTokenKey))

	require.False(t, m.HasToken(carryCookies(t, rec2)))
}

func TestReadOnlyStore(t *testing.T) {
	m := NewManager(testSecret, Options{})
	store := m.Store(httptest.NewRequest(http.MethodGet, "/", nil), nil)

	require.Error(t, store.Set(login.AccessTokenKey, "tok"))
	require.Error(t, store.Delete(login.AccessTokenKey))
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	m := NewManager(testSecret, Options{})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionName, Value: "garbage"})

	require.False(t, m.HasToken(r))

	rec := httptest.NewRecorder()
	require.NoError(t, m.Store(r, rec).Set(login.AccessTokenKey, "fresh"))
}

func TestClearToken(t *testing.T) {
	m := NewManager(testSecret, Options{})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Store(httptest.NewRequest(http.MethodPost, "/login", nil), rec).Set(login.AccessTokenKey, "tok"))

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.ClearToken(carryCookies(t, rec), rec2))

	cookies := rec2.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].MaxAge < 0)
}

func TestCurrentUser(t *testing.T) {
	m := NewManager(testSecret, Options{})

	sessionWith := func(token string) *http.Request {
		rec := httptest.NewRecorder()
		require.NoError(t, m.Store(httptest.NewRequest(http.MethodPost, "/login", nil), rec).Set(login.AccessTokenKey, token))
		return carryCookies(t, rec)
	}

	t.Run("no session", func(t *testing.T) {
		_, err := m.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("opaque token", func(t *testing.T) {
		info, err := m.CurrentUser(sessionWith("tok123"))
		require.NoError(t, err)
		require.Empty(t, info.Username)
	})

	t.Run("valid jwt", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":      "u-1",
			"username": "alice",
			"exp":      time.Now().Add(time.Hour).Unix(),
		})
		info, err := m.CurrentUser(sessionWith(token))
		require.NoError(t, err)
		require.Equal(t, "alice", info.Username)
		require.True(t, info.HasExpiry())
	})

	t.Run("expired jwt", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub": "u-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := m.CurrentUser(sessionWith(token))
		require.ErrorIs(t, err, ErrTokenExpired)
	})
}
