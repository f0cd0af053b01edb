package middleware

import (
	"log/slog"
	"net/http"

	"github.com/devilmonastery/storefront/web/internal/session"
)

// AuthMiddleware handles authentication checks for requests
type AuthMiddleware struct {
	sessionManager *session.Manager
	loginPath      string
	log            *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware that sends anonymous
// requests to loginPath
func NewAuthMiddleware(sessionManager *session.Manager, loginPath string, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessionManager: sessionManager,
		loginPath:      loginPath,
		log:            log.With(slog.String("component", "auth_middleware")),
	}
}

// RequireAuth is middleware that ensures a token is stored in the session
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.sessionManager.HasToken(r) {
			m.log.Debug("no token found in session, redirecting to login", slog.String("path", r.URL.Path))
			http.Redirect(w, r, m.loginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
