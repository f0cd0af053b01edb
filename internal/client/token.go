package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/pkg/logger"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-ID"
)

// RequestToken performs the password grant. Concurrent calls with identical
// credentials share a single request and its result. The shared request is
// detached from any one caller's cancellation; each caller stops waiting when
// its own context is done.
func (c *Client) RequestToken(ctx context.Context, creds login.Credentials) (*login.TokenResponse, error) {
	key := creds.Username + "\x00" + creds.Password

	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		return c.requestToken(context.WithoutCancel(ctx), creds)
	})

	select {
	case <-ctx.Done():
		c.log.Debug("stopped waiting for token request", slog.String("username", creds.Username))
		return nil, fmt.Errorf("%w: %w", login.ErrTransport, ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.log.Debug("joined in-flight token request", slog.String("username", creds.Username))
		}
		if res.Err != nil {
			return nil, res.Err
		}

		// Each caller gets its own copy
		token := *res.Val.(*login.TokenResponse)
		return &token, nil
	}
}

func (c *Client) requestToken(ctx context.Context, creds login.Credentials) (*login.TokenResponse, error) {
	requestID := uuid.NewString()
	log := logger.WithRequest(c.log, requestID)
	log.Debug("POST", slog.String("url", c.tokenURL))

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentTypeForm).
		SetHeader("Accept", contentTypeJSON).
		SetHeader(requestIDHeader, requestID).
		SetBody(login.EncodeForm(creds)).
		Post(c.tokenURL)
	if err != nil {
		log.Error("token request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", login.ErrTransport, err)
	}

	if !resp.IsSuccess() {
		log.Info("token request rejected", slog.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: status %d", login.ErrAuthRejected, resp.StatusCode())
	}

	token, err := decodeTokenResponse(resp.Body())
	if err != nil {
		log.Error("unusable token response", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("token issued", slog.String("token", logger.TokenPreview(token.AccessToken)))
	return token, nil
}

func decodeTokenResponse(body []byte) (*login.TokenResponse, error) {
	var token login.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: %w", login.ErrMalformedResponse, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: access_token missing", login.ErrMalformedResponse)
	}
	return &token, nil
}
