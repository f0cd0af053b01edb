package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devilmonastery/storefront/internal/pkg/metrics"
)

// metricsTransport wraps an http.RoundTripper to collect metrics on token endpoint calls
type metricsTransport struct {
	base http.RoundTripper
}

// NewMetricsTransport creates a transport wrapper that records request
// counts, latency and error types for every outbound call.
func NewMetricsTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &metricsTransport{base: base}
}

// RoundTrip implements http.RoundTripper
func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	metrics.TokenEndpointRequests.WithLabelValues(req.Method, strconv.Itoa(statusCode)).Inc()
	metrics.TokenEndpointDuration.WithLabelValues(req.Method).Observe(float64(duration.Milliseconds()))

	if err != nil || statusCode >= 400 {
		metrics.TokenEndpointErrors.WithLabelValues(classifyError(statusCode, err)).Inc()
	}

	return resp, err
}

// classifyError categorizes token endpoint failures for metrics
func classifyError(statusCode int, err error) string {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return "canceled"
		case errors.Is(err, context.DeadlineExceeded):
			return "timeout"
		}

		errStr := err.Error()
		switch {
		case strings.Contains(errStr, "timeout"):
			return "timeout"
		case strings.Contains(errStr, "connection"):
			return "connection"
		case strings.Contains(errStr, "no such host"):
			return "dns"
		case strings.Contains(errStr, "tls"), strings.Contains(errStr, "TLS"), strings.Contains(errStr, "x509"):
			return "tls"
		default:
			return "network"
		}
	}

	switch {
	case statusCode == 400:
		return "bad_request"
	case statusCode == 401:
		return "unauthorized"
	case statusCode == 403:
		return "forbidden"
	case statusCode == 404:
		return "not_found"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}
