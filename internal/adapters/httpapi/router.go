package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/infrastructure/config"
)

// Options configures the HTTP handler
type Options struct {
	// BaseURL prefixes the Location header of created entries
	BaseURL string

	Logger *slog.Logger

	// RateLimit disables limiting when Requests is zero
	RateLimit config.RateLimitConfig

	// HTTPMetrics records per-route metrics when non-nil
	HTTPMetrics *metrics.HTTPMetricsCollector

	// MetricsPath exposes the Prometheus registry when non-empty and metrics are enabled
	MetricsPath string
}

// NewHandler builds the REST surface over the mediator
func NewHandler(sender mediator.Sender, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries := &entriesHandler{
		sender:  sender,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+entriesPath, entries.create)
	mux.HandleFunc("GET "+entriesPath, entries.list)
	mux.HandleFunc("GET "+entriesPath+"/{id}", entries.get)
	mux.HandleFunc("PUT "+entriesPath, entries.update)
	mux.HandleFunc("DELETE "+entriesPath+"/{id}", entries.delete)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.MetricsPath != "" && metrics.IsEnabled() {
		mux.Handle("GET "+opts.MetricsPath, metrics.Handler())
	}

	var limiter *rate.Limiter
	if opts.RateLimit.Requests > 0 {
		burst := opts.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit.Requests), burst)
	}

	handler := withMetrics(opts.HTTPMetrics, mux)
	handler = withRateLimit(limiter, opts.HTTPMetrics, handler)
	return withRequestLogging(logger, handler)
}
