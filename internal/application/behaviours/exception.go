package behaviours

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// ExceptionHandling converts faults raised downstream into a Failure(500) result.
// Panics are recovered; cancellation errors pass through unchanged.
type ExceptionHandling struct {
	logger *slog.Logger
}

// NewExceptionHandling creates the exception handling behaviour
func NewExceptionHandling(logger *slog.Logger) *ExceptionHandling {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExceptionHandling{logger: logger}
}

// Handle implements mediator.Behaviour
func (b *ExceptionHandling) Handle(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "unhandled panic during request processing",
				"request", info.Name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			result, err = b.convert(info, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = next(ctx)
	if err == nil || isCancellation(err) {
		return result, err
	}

	b.logger.ErrorContext(ctx, "unhandled error during request processing",
		"request", info.Name,
		"error", err.Error(),
	)
	return b.convert(info, err)
}

func (b *ExceptionHandling) convert(info mediator.RequestInfo, fault error) (any, error) {
	if failure, ok := info.Failure(http.StatusInternalServerError, fault.Error()); ok {
		return failure, nil
	}
	return nil, fmt.Errorf("%w: %s: %w", mediator.ErrUnhandledFault, info.Name, fault)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
