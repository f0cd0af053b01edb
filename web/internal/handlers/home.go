package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/devilmonastery/storefront/web/internal/session"
)

// Home handles the page a successful login lands on
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionManager.CurrentUser(r)
	if errors.Is(err, session.ErrTokenExpired) || errors.Is(err, session.ErrNoToken) {
		h.clearSessionAndRedirect(w, r)
		return
	}
	if err != nil {
		h.log.Error("failed to read session", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Username": user.Username,
	}
	if user.HasExpiry() {
		data["ExpiresAt"] = user.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")
	}

	h.renderTemplate(w, "home.html", data)
}

// Root sends visitors to the login page
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, LoginPagePath, http.StatusSeeOther)
}
