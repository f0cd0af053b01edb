package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login flow metrics
var (
	// LoginAttempts tracks credential submissions by outcome
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_login_attempts_total",
			Help: "Total login submissions by outcome",
		},
		[]string{"outcome"},
	)

	// LoginDuration tracks the time from submission to outcome
	LoginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "storefront_login_duration_ms",
			Help:                            "Login submission duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"outcome"},
	)
)

// Token endpoint metrics
var (
	// TokenEndpointRequests tracks outbound calls to the token endpoint
	TokenEndpointRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_token_endpoint_requests_total",
			Help: "Total token endpoint requests by method and status code",
		},
		[]string{"method", "status_code"},
	)

	// TokenEndpointDuration tracks token endpoint latency
	TokenEndpointDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "storefront_token_endpoint_duration_ms",
			Help:                            "Token endpoint request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method"},
	)

	// TokenEndpointErrors tracks failed token endpoint calls by error type
	TokenEndpointErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_token_endpoint_errors_total",
			Help: "Total token endpoint errors by error type",
		},
		[]string{"error_type"},
	)
)

// HTTP/Web Handler Metrics
var (
	// HTTPRequests tracks HTTP requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration tracks HTTP request duration
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "storefront_http_request_duration_ms",
			Help:                            "HTTP request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "path"},
	)
)
