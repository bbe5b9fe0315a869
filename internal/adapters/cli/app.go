package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/adapters/persistence"
	"github.com/andrescamacho/entries-go/internal/adapters/sqlstore"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/setup"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
	"github.com/andrescamacho/entries-go/internal/domain/shared"
	"github.com/andrescamacho/entries-go/internal/infrastructure/config"
	"github.com/andrescamacho/entries-go/internal/infrastructure/database"
	"github.com/andrescamacho/entries-go/internal/infrastructure/logging"
)

// app bundles the wired dependencies shared by serve and the entry subcommands
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	mediator *mediator.Mediator
	closers  []func() error
}

type appOptions struct {
	commandMetrics *metrics.CommandMetricsCollector
	tracerProvider trace.TracerProvider
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newCLILogger logs to stderr so command output stays machine readable
func newCLILogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.NewLoggerTo(os.Stderr, config.LoggingConfig{Level: level, Format: "text"})
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (*app, error) {
	repo, closeRepo, err := openEntryRepository(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	policy, err := mediator.ParseDuplicatePolicy(cfg.Mediator.DuplicatePolicy)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	registry := setup.NewHandlerRegistry(repo, shared.NewRealClock(), logger)
	m, err := registry.CreateConfiguredMediator(setup.PipelineOptions{
		DuplicatePolicy: policy,
		CommandMetrics:  opts.commandMetrics,
		TracerProvider:  opts.tracerProvider,
	})
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		mediator: m,
		closers:  []func() error{closeRepo},
	}, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openEntryRepository opens the repository selected by database.driver.
// SQLite databases are migrated on open.
func openEntryRepository(ctx context.Context, cfg *config.DatabaseConfig) (entry.EntryRepository, func() error, error) {
	switch cfg.Driver {
	case config.DriverSQLX:
		db, err := database.NewSQLConnection(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo := sqlstore.NewSQLEntryRepository(db, sqlstore.DialectFor(cfg.Type))
		if cfg.Type == "sqlite" {
			if err := repo.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		return repo, db.Close, nil

	default:
		db, err := database.NewConnection(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Type == "sqlite" {
			if err := database.AutoMigrate(db); err != nil {
				_ = database.Close(db)
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return persistence.NewGormEntryRepository(db), func() error { return database.Close(db) }, nil
	}
}

// migrateDatabase creates the entries schema with the configured driver
func migrateDatabase(ctx context.Context, cfg *config.DatabaseConfig, out io.Writer) error {
	switch cfg.Driver {
	case config.DriverSQLX:
		db, err := database.NewSQLConnection(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := sqlstore.NewSQLEntryRepository(db, sqlstore.DialectFor(cfg.Type)).Migrate(ctx); err != nil {
			return err
		}

	default:
		db, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	fmt.Fprintf(out, "✓ Schema migrated (%s via %s)\n", cfg.Type, cfg.Driver)
	return nil
}
