package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/web/internal/render"
	"github.com/devilmonastery/storefront/web/internal/session"
)

const (
	// LoginPagePath is where anonymous visitors are sent
	LoginPagePath = "/login.html"

	// invalidLoginLocation is relative so it resolves next to the form's action
	invalidLoginLocation = "login.html?reason=invalid"
)

// Options holds page settings taken from the web config
type Options struct {
	// HomePath is where a successful login navigates, relative to the login page
	HomePath string

	// Notice is markdown rendered above the login form
	Notice string
}

// Handler holds dependencies for all web handlers
type Handler struct {
	issuer         login.TokenIssuer
	sessionManager *session.Manager
	templates      *render.TemplateSet
	opts           Options
	log            *slog.Logger
}

// New creates a new handler with dependencies
func New(issuer login.TokenIssuer, sessionManager *session.Manager, templates *render.TemplateSet, opts Options, logger *slog.Logger) *Handler {
	if opts.HomePath == "" {
		opts.HomePath = login.DefaultHomePath
	}
	return &Handler{
		issuer:         issuer,
		sessionManager: sessionManager,
		templates:      templates,
		opts:           opts,
		log:            logger.With(slog.String("component", "web_handler")),
	}
}

// HomeRoute returns the local path the home location resolves to from the
// login form's action. ok is false when the home page lives on another host.
func (h *Handler) HomeRoute() (route string, ok bool) {
	ref, err := url.Parse(h.opts.HomePath)
	if err != nil || ref.Scheme != "" || ref.Host != "" {
		return "", false
	}
	action := &url.URL{Path: "/login"}
	return action.ResolveReference(ref).Path, true
}

// renderTemplate renders a template with data
func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		http.Error(w, "Templates not loaded", http.StatusInternalServerError)
		return
	}
	h.log.Debug("rendering template", slog.String("template", name))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Execute(w, name, data); err != nil {
		h.log.Error("template rendering failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// clearSessionAndRedirect clears the session and redirects to login
func (h *Handler) clearSessionAndRedirect(w http.ResponseWriter, r *http.Request) {
	h.log.Info("clearing invalid session and redirecting to login")
	if err := h.sessionManager.ClearToken(r, w); err != nil {
		h.log.Error("error clearing session", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, LoginPagePath, http.StatusSeeOther)
}
