package metrics

import (
	"strconv"
	"time"
)

// RecordLogin records the outcome of one credential submission.
// outcome is one of "success", "rejected", "malformed", "transport", "storage".
func RecordLogin(outcome string, duration time.Duration) {
	LoginAttempts.WithLabelValues(outcome).Inc()
	LoginDuration.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequest records an inbound web request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, path).Observe(float64(duration.Milliseconds()))
}
