package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/devilmonastery/storefront/internal/storage"
	"github.com/devilmonastery/storefront/internal/tokeninfo"
)

var (
	// ErrNoToken is returned when no token is found in the session
	ErrNoToken = errors.New("no token in session")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	errReadOnly = errors.New("session store opened without a response writer")
)

// CurrentUser returns what is known about the signed-in user. Opaque tokens
// yield an empty Info; expired JWTs yield ErrTokenExpired.
func (m *Manager) CurrentUser(r *http.Request) (*tokeninfo.Info, error) {
	token, err := m.GetToken(r)
	if errors.Is(err, storage.ErrNotFound) || token == "" {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}

	info, err := tokeninfo.Inspect(token)
	if errors.Is(err, tokeninfo.ErrOpaqueToken) {
		return &tokeninfo.Info{}, nil
	}
	if err != nil {
		return nil, err
	}

	if info.IsExpired(time.Now()) {
		return nil, ErrTokenExpired
	}
	return info, nil
}
