package behaviours

import (
	"context"
	"log/slog"
	"time"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// Logging logs the start and the end of every dispatch. It never alters the result.
type Logging struct {
	logger *slog.Logger
}

// NewLogging creates the logging behaviour; a nil logger falls back to slog.Default()
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

// Handle implements mediator.Behaviour
func (b *Logging) Handle(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (result any, err error) {
	start := time.Now()
	b.logger.InfoContext(ctx, "request started",
		"request", info.Name,
		"kind", info.Kind.String(),
	)

	// Deferred so the end of the request is logged even when a handler panics
	defer func() {
		attrs := []any{
			"request", info.Name,
			"kind", info.Kind.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}

		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "request finished", append(attrs, "panic", r)...)
			panic(r)
		}

		if env, ok := result.(mediator.Envelope); ok {
			attrs = append(attrs, "status", env.StatusCode(), "success", env.IsSuccess())
		}
		if err != nil {
			b.logger.WarnContext(ctx, "request finished", append(attrs, "error", err.Error())...)
			return
		}
		b.logger.InfoContext(ctx, "request finished", attrs...)
	}()

	return next(ctx)
}
