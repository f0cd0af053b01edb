package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/devilmonastery/storefront/internal/login"
)

// webPage is the login page as seen from one POST: navigation and alerts
// both become 303 redirects, so the form is never re-served from a POST.
type webPage struct {
	w         http.ResponseWriter
	r         *http.Request
	responded bool
}

func (p *webPage) Navigate(location string) error {
	http.Redirect(p.w, p.r, location, http.StatusSeeOther)
	p.responded = true
	return nil
}

// Alert sends the browser back to the form, which shows the failure message
func (p *webPage) Alert(string) {
	http.Redirect(p.w, p.r, invalidLoginLocation, http.StatusSeeOther)
	p.responded = true
}

// LoginPage shows the login form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Notice": h.opts.Notice,
	}
	if r.URL.Query().Get("reason") == "invalid" {
		data["Alert"] = login.FailureMessage
	}

	h.renderTemplate(w, "login.html", data)
}

// Login handles the form submission
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	page := &webPage{w: w, r: r}

	if err := r.ParseForm(); err != nil {
		h.log.Warn("failed to parse login form", slog.String("error", err.Error()))
		page.Alert(login.FailureMessage)
		return
	}

	creds := login.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	submitter := login.NewSubmitter(h.issuer, h.sessionManager.Store(r, w), page, page,
		login.WithHomePath(h.opts.HomePath),
		login.WithLogger(h.log))

	_, err := submitter.Submit(r.Context(), creds)
	if errors.Is(err, login.ErrStorage) {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	if !page.responded {
		page.Alert(login.FailureMessage)
	}
}

// Logout removes the stored token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.ClearToken(r, w); err != nil {
		h.log.Error("error clearing session", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, LoginPagePath, http.StatusSeeOther)
}
