package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devilmonastery/storefront/internal/client"
	"github.com/devilmonastery/storefront/internal/pkg/logger"
	"github.com/devilmonastery/storefront/web/internal/config"
	"github.com/devilmonastery/storefront/web/internal/handlers"
	"github.com/devilmonastery/storefront/web/internal/middleware"
	"github.com/devilmonastery/storefront/web/internal/render"
	"github.com/devilmonastery/storefront/web/internal/session"
)

// setupWebLogging configures the global logger for the web service
func setupWebLogging(logLevel, logFormat string) error {
	cfg := logger.Config{
		Level:       logger.ParseLevel(logLevel),
		LogToStderr: true, // Web service always logs to stderr
		Format:      logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	// Set as default logger so all slog.Info/Warn/Error calls use our configured logger
	slog.SetDefault(globalLogger)

	return nil
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging (must be done before any logging calls)
	if err = setupWebLogging(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to setup logging: %v\n", err)
		os.Exit(1)
	}

	log := slog.Default().With("component", "web")
	log.Info("starting storefront web service")

	templates, err := render.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates", slog.Any("error", err))
		os.Exit(1)
	}
	render.LogTemplateNames(templates, slog.Default())

	sessionSecret, err := loadSessionSecret(cfg.Session.Secret, log)
	if err != nil {
		log.Error("failed to set up session secret", slog.Any("error", err))
		os.Exit(1)
	}

	sessionMgr := session.NewManager(sessionSecret, session.Options{
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	})

	tokenClient, err := client.NewClient(client.Config{
		PageURL:   cfg.Storefront.PageURL,
		TokenPath: cfg.Storefront.TokenPath,
		Timeout:   cfg.Storefront.Timeout,
	})
	if err != nil {
		log.Error("failed to create token client", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("using token endpoint", slog.String("url", tokenClient.TokenURL()))

	h := handlers.New(tokenClient, sessionMgr, templates, handlers.Options{
		HomePath: cfg.Storefront.HomePath,
		Notice:   cfg.Login.Notice,
	}, log)

	router := createRouter(h, middleware.NewAuthMiddleware(sessionMgr, handlers.LoginPagePath, log), log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("listening", slog.String("address", addr))

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}

// loadSessionSecret decodes the configured base64 secret, or generates a
// random one so sessions last only as long as the process
func loadSessionSecret(configured string, log *slog.Logger) ([]byte, error) {
	if configured != "" {
		secret, err := base64.StdEncoding.DecodeString(configured)
		if err == nil {
			log.Info("using configured session secret (sessions will persist across restarts)")
			return secret, nil
		}
		log.Warn("failed to decode session secret, generating a random one", slog.Any("error", err))
	} else {
		log.Warn("no session secret configured, generating random one (sessions won't persist)")
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, nil
}

// createRouter sets up the HTTP router with all routes and middleware
func createRouter(h *handlers.Handler, authMw *middleware.AuthMiddleware, log *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.LogRequest(log))

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public routes
	router.HandleFunc("/", h.Root).Methods("GET")
	router.HandleFunc(handlers.LoginPagePath, h.LoginPage).Methods("GET")
	router.HandleFunc("/login", h.Login).Methods("POST")
	router.HandleFunc("/logout", h.Logout).Methods("GET", "POST")

	// Auth required
	if route, ok := h.HomeRoute(); ok {
		router.Handle(route, authMw.RequireAuth(http.HandlerFunc(h.Home))).Methods("GET")
	} else {
		log.Info("home page is served by another host, not registering a home route")
	}

	return router
}
