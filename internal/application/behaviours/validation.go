package behaviours

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
)

// Validation runs every validator registered for a command before its handler.
// Failures from all validators are aggregated into a single Failure(400); the handler
// is not invoked. Register it with mediator.CommandsOnly.
type Validation struct {
	validators *validation.Set
	logger     *slog.Logger
}

// NewValidation creates the validation behaviour over a validator set
func NewValidation(validators *validation.Set, logger *slog.Logger) *Validation {
	if validators == nil {
		validators = validation.NewSet()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validation{validators: validators, logger: logger}
}

// Handle implements mediator.Behaviour
func (b *Validation) Handle(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
	validators := b.validators.For(info.RequestType)
	if len(validators) == 0 {
		return next(ctx)
	}

	b.logger.DebugContext(ctx, "validators are checking the request", "request", info.Name, "validators", len(validators))

	// All validators run to completion; one failing does not cancel the others.
	var g errgroup.Group
	results := make([][]validation.FieldError, len(validators))
	for i, validate := range validators {
		g.Go(func() (err error) {
			// A panic here would escape the exception boundary, which only
			// recovers on the dispatching goroutine
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("validator panic: %v", r)
				}
			}()

			found, err := validate(ctx, request)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Keep validator registration order in the aggregated output
	var failures []validation.FieldError
	for _, found := range results {
		failures = append(failures, found...)
	}

	if len(failures) > 0 {
		messages := validation.Messages(failures)
		b.logger.InfoContext(ctx, "request rejected by validation", "request", info.Name, "errors", messages)

		if failure, ok := info.Failure(http.StatusBadRequest, messages...); ok {
			return failure, nil
		}
		return nil, &validation.ValidationError{Failures: failures}
	}

	b.logger.DebugContext(ctx, "validators accepted the request", "request", info.Name)
	return next(ctx)
}
