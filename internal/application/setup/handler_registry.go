package setup

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/behaviours"
	entryCommands "github.com/andrescamacho/entries-go/internal/application/entry/commands"
	entryQueries "github.com/andrescamacho/entries-go/internal/application/entry/queries"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
	"github.com/andrescamacho/entries-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	entryRepo  entry.EntryRepository
	clock      shared.Clock
	logger     *slog.Logger
	validate   *validator.Validate
	validators *validation.Set
}

// PipelineOptions selects the optional behaviours of the configured mediator
type PipelineOptions struct {
	DuplicatePolicy mediator.DuplicatePolicy

	// CommandMetrics enables the Prometheus behaviour when non-nil
	CommandMetrics *metrics.CommandMetricsCollector

	// TracerProvider enables the tracing behaviour when non-nil
	TracerProvider trace.TracerProvider
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(entryRepo entry.EntryRepository, clock shared.Clock, logger *slog.Logger) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &HandlerRegistry{
		entryRepo:  entryRepo,
		clock:      clock,
		logger:     logger,
		validate:   validation.NewValidate(),
		validators: validation.NewSet(),
	}
	r.registerEntryValidators()
	return r
}

// registerEntryValidators fills the validator set once; every mediator the
// registry configures shares it
func (r *HandlerRegistry) registerEntryValidators() {
	for _, v := range entryCommands.NewCreateEntryValidators(r.validate) {
		validation.AddValidator(r.validators, v)
	}
	for _, v := range entryCommands.NewUpdateEntryValidators(r.validate) {
		validation.AddValidator(r.validators, v)
	}
	for _, v := range entryCommands.NewDeleteEntryValidators(r.validate) {
		validation.AddValidator(r.validators, v)
	}
}

// Validators exposes the validator set used by the validation behaviour
func (r *HandlerRegistry) Validators() *validation.Set {
	return r.validators
}

// RegisterEntryHandlers registers all entry command and query handlers with the mediator
//
// This method registers:
//   - CreateEntryCommand → CreateEntryHandler
//   - UpdateEntryCommand → UpdateEntryHandler
//   - DeleteEntryCommand → DeleteEntryHandler
//   - GetEntriesQuery → GetEntriesHandler
//
// Handlers are built by factories, so each dispatch gets a fresh instance.
func (r *HandlerRegistry) RegisterEntryHandlers(m *mediator.Mediator) error {
	err := mediator.RegisterFactory(m, func() mediator.Handler[*entryCommands.CreateEntryCommand, mediator.Result[entryCommands.CreateEntryResponse]] {
		return entryCommands.NewCreateEntryHandler(r.entryRepo, r.clock)
	})
	if err != nil {
		return err
	}

	err = mediator.RegisterFactory(m, func() mediator.Handler[*entryCommands.UpdateEntryCommand, mediator.Result[entryCommands.UpdateEntryResponse]] {
		return entryCommands.NewUpdateEntryHandler(r.entryRepo)
	})
	if err != nil {
		return err
	}

	err = mediator.RegisterFactory(m, func() mediator.Handler[*entryCommands.DeleteEntryCommand, mediator.Result[entryCommands.DeleteEntryResponse]] {
		return entryCommands.NewDeleteEntryHandler(r.entryRepo)
	})
	if err != nil {
		return err
	}

	return mediator.RegisterFactory(m, func() mediator.Handler[*entryQueries.GetEntriesQuery, mediator.Result[[]entryQueries.EntryDTO]] {
		return entryQueries.NewGetEntriesHandler(r.entryRepo)
	})
}

// RegisterBehaviours registers the pipeline in execution order:
// Logging → Metrics → Tracing → ExceptionHandling → Validation (commands only)
func (r *HandlerRegistry) RegisterBehaviours(m *mediator.Mediator, opts PipelineOptions) error {
	if err := m.Use(behaviours.NewLogging(r.logger)); err != nil {
		return err
	}

	if opts.CommandMetrics != nil {
		if err := m.Use(metrics.NewPrometheusBehaviour(opts.CommandMetrics)); err != nil {
			return err
		}
	}

	if opts.TracerProvider != nil {
		if err := m.Use(behaviours.NewTracing(opts.TracerProvider)); err != nil {
			return err
		}
	}

	if err := m.Use(behaviours.NewExceptionHandling(r.logger)); err != nil {
		return err
	}

	return m.Use(behaviours.NewValidation(r.validators, r.logger), mediator.CommandsOnly)
}

// CreateConfiguredMediator creates a new mediator with all entry handlers and behaviours registered
//
// This is a convenience method for the serve and CLI entry points.
func (r *HandlerRegistry) CreateConfiguredMediator(opts PipelineOptions) (*mediator.Mediator, error) {
	m := mediator.NewMediator(mediator.WithDuplicatePolicy(opts.DuplicatePolicy))

	if err := r.RegisterEntryHandlers(m); err != nil {
		return nil, err
	}

	if err := r.RegisterBehaviours(m, opts); err != nil {
		return nil, err
	}

	return m, nil
}
