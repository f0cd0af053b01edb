package login

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/storefront/internal/pkg/logger"
	"github.com/devilmonastery/storefront/internal/pkg/metrics"
	"github.com/devilmonastery/storefront/internal/storage"
)

// Submitter runs the credential-acquisition flow for one login page
type Submitter struct {
	issuer    TokenIssuer
	store     storage.Store
	navigator Navigator
	notifier  Notifier
	homePath  string
	log       *slog.Logger
}

// Option configures a Submitter
type Option func(*Submitter)

// WithHomePath overrides the location navigated to after a successful login
func WithHomePath(path string) Option {
	return func(s *Submitter) {
		s.homePath = path
	}
}

// WithLogger sets the logger used for flow events
func WithLogger(log *slog.Logger) Option {
	return func(s *Submitter) {
		s.log = log
	}
}

// NewSubmitter wires a submitter to its collaborators. The store, navigator
// and notifier usually belong to a single page (a CLI invocation or one web
// request); the issuer can be shared.
func NewSubmitter(issuer TokenIssuer, store storage.Store, navigator Navigator, notifier Notifier, opts ...Option) *Submitter {
	s := &Submitter{
		issuer:    issuer,
		store:     store,
		navigator: navigator,
		notifier:  notifier,
		homePath:  DefaultHomePath,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "login"))
	return s
}

// Submit exchanges creds for a token. On success the token is stored under
// AccessTokenKey and the navigator is sent to the home location. On any
// request failure the notifier shows FailureMessage and nothing is stored.
func (s *Submitter) Submit(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	start := time.Now()

	s.log.Debug("submitting credentials", slog.String("username", creds.Username))

	token, err := s.issuer.RequestToken(ctx, creds)
	if err != nil {
		outcome := Outcome(err)
		metrics.RecordLogin(outcome, time.Since(start))
		s.log.Warn("login failed",
			slog.String("username", creds.Username),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()))
		s.notifier.Alert(FailureMessage)
		return nil, err
	}

	if err := s.store.Set(AccessTokenKey, token.AccessToken); err != nil {
		metrics.RecordLogin(Outcome(ErrStorage), time.Since(start))
		s.log.Error("failed to store access token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	metrics.RecordLogin(Outcome(nil), time.Since(start))
	s.log.Info("login succeeded",
		slog.String("username", creds.Username),
		slog.String("token", logger.TokenPreview(token.AccessToken)))

	if err := s.navigator.Navigate(s.homePath); err != nil {
		return token, fmt.Errorf("failed to navigate to %s: %w", s.homePath, err)
	}

	return token, nil
}
