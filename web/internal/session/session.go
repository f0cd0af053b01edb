package session

import (
	"net/http"
	"sync"

	"github.com/gorilla/sessions"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/storage"
)

const (
	// SessionName is the name of the session cookie
	SessionName = "storefront_session"

	// DefaultMaxAge is the cookie lifetime in seconds (30 days)
	DefaultMaxAge = 30 * 24 * 60 * 60
)

// Options configures the session cookie
type Options struct {
	MaxAge int
	Secure bool
}

// Manager wraps gorilla/sessions for our use case
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a new session manager
// secretKey should be 32 bytes for AES-256
func NewManager(secretKey []byte, opts Options) *Manager {
	store := sessions.NewCookieStore(secretKey)

	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store: store,
	}
}

// GetToken retrieves the access token from the session
func (m *Manager) GetToken(r *http.Request) (string, error) {
	return m.Store(r, nil).Get(login.AccessTokenKey)
}

// HasToken checks if a session token exists
func (m *Manager) HasToken(r *http.Request) bool {
	token, err := m.GetToken(r)
	return err == nil && token != ""
}

// ClearToken removes the session (logout)
func (m *Manager) ClearToken(r *http.Request, w http.ResponseWriter) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil // Session doesn't exist, nothing to clear
	}

	// Set MaxAge to -1 to delete the session
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Store returns a storage.Store backed by the session cookie of one request.
// Writes are saved to w immediately, so they must happen before the response
// status is written. A nil w gives a read-only view.
func (m *Manager) Store(r *http.Request, w http.ResponseWriter) storage.Store {
	return &cookieStore{manager: m, request: r, writer: w}
}

// cookieStore is the per-request view of the session values
type cookieStore struct {
	mu      sync.Mutex
	manager *Manager
	request *http.Request
	writer  http.ResponseWriter
}

func (s *cookieStore) session() *sessions.Session {
	session, err := s.manager.store.Get(s.request, SessionName)
	if err != nil {
		// Undecodable cookie (rotated secret, tampering): start over
		session, _ = s.manager.store.New(s.request, SessionName)
	}
	return session
}

func (s *cookieStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.session().Values[key].(string)
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (s *cookieStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer == nil {
		return errReadOnly
	}

	session := s.session()
	session.Values[key] = value
	return session.Save(s.request, s.writer)
}

func (s *cookieStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer == nil {
		return errReadOnly
	}

	session := s.session()
	if _, ok := session.Values[key]; !ok {
		return nil
	}
	delete(session.Values, key)
	return session.Save(s.request, s.writer)
}
