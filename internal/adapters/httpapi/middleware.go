package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/logging"
)

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) statusCode() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// withRequestLogging attaches a request-scoped logger to the context and logs completion
func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		reqLogger := logger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		rec := &statusRecorder{ResponseWriter: w}
		rec.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(rec, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))

		reqLogger.Info("http request",
			"status", rec.statusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// withRateLimit rejects requests once the token bucket is empty
func withRateLimit(limiter *rate.Limiter, collector *metrics.HTTPMetricsCollector, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			if collector != nil {
				collector.RecordRateLimited(r.Method, r.URL.Path)
			}
			w.Header().Set("Retry-After", "1")
			writeFailure(w, logging.LoggerFromContext(r.Context()), http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withMetrics records request counts and latency by matched route pattern.
// It must wrap the mux directly so the pattern is visible after routing.
func withMetrics(collector *metrics.HTTPMetricsCollector, next http.Handler) http.Handler {
	if collector == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		collector.RecordAPIRequest(r.Method, route, rec.statusCode(), time.Since(start).Seconds())
	})
}
