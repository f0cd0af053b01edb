package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/devilmonastery/storefront/internal/pkg/logger"
	"github.com/devilmonastery/storefront/internal/pkg/metrics"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LogRequest returns mux middleware that logs every request and records
// HTTP metrics labelled by route template
func LogRequest(log *slog.Logger) mux.MiddlewareFunc {
	log = log.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default if WriteHeader not called
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			path := routeTemplate(r)
			metrics.RecordHTTPRequest(r.Method, path, wrapped.statusCode, duration)

			// Skip logging health checks to reduce noise
			if r.URL.Path == "/health" {
				return
			}

			// Get real IP (consider X-Forwarded-For if behind proxy)
			clientIP := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				clientIP = forwarded
			} else if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
				clientIP = realIP
			}

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			attrs := []any{
				slog.Int("status", wrapped.statusCode),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.Int64("bytes", wrapped.written),
				slog.String("client_ip", clientIP),
				slog.String("user_agent", r.UserAgent()),
				slog.String("proto", r.Proto),
			}

			reqLog := logger.WithRequest(logger.WithHTTPRequest(log, r.Method, r.URL.Path), requestID)
			if wrapped.statusCode >= 500 {
				reqLog.Error("request", attrs...)
			} else {
				reqLog.Info("request", attrs...)
			}
		})
	}
}

// routeTemplate keeps metric label cardinality bounded
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
