package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/entries-go/internal/adapters/httpapi"
	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/infrastructure/logging"
	"github.com/andrescamacho/entries-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/entries-go/internal/infrastructure/tracing"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the entries REST API under /api/v1/entries.

The server stops gracefully on SIGINT or SIGTERM.

Example:
  entries serve --config ./config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if cfg.Server.PIDFile != "" {
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := pf.Acquire(); err != nil {
			return err
		}
		defer func() {
			if err := pf.Release(); err != nil {
				logger.Warn("failed to release PID file", "error", err)
			}
		}()
	}

	provider, shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	var (
		opts        appOptions
		httpMetrics *metrics.HTTPMetricsCollector
	)
	if cfg.Tracing.Enabled {
		opts.tracerProvider = provider
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		defer metrics.ResetRegistry()

		opts.commandMetrics = metrics.NewCommandMetricsCollector()
		httpMetrics = metrics.NewHTTPMetricsCollector()
		if err := opts.commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		if err := httpMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register http metrics: %w", err)
		}
	}

	a, err := newApp(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Metrics.Enabled {
		entryMetrics := metrics.NewEntryMetricsCollector(a.mediator, logger, cfg.Metrics.PollInterval)
		if err := entryMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register entry metrics: %w", err)
		}
		metrics.SetGlobalEntryCollector(entryMetrics)
		entryMetrics.Start(ctx)
		defer entryMetrics.Stop()
	}

	handler := httpapi.NewHandler(a.mediator, httpapi.Options{
		BaseURL:     cfg.Server.BaseURL,
		Logger:      logger,
		RateLimit:   cfg.Server.RateLimit,
		HTTPMetrics: httpMetrics,
		MetricsPath: cfg.Metrics.Path,
	})

	logger.Info("starting entries service",
		"address", cfg.Server.Address,
		"database", cfg.Database.Type,
		"driver", cfg.Database.Driver,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)

	return httpapi.NewServer(cfg.Server, handler, logger).ListenAndServe(ctx)
}
