package behaviours

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// Tracing wraps each dispatch in a span named "mediator.<RequestName>"
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing creates the tracing behaviour; a nil provider uses the global one
func NewTracing(provider trace.TracerProvider) *Tracing {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracing{tracer: provider.Tracer("github.com/andrescamacho/entries-go/mediator")}
}

// Handle implements mediator.Behaviour
func (b *Tracing) Handle(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
	ctx, span := b.tracer.Start(ctx, "mediator."+info.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("mediator.request", info.Name),
			attribute.String("mediator.kind", info.Kind.String()),
		),
	)
	defer span.End()

	result, err := next(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	if env, ok := result.(mediator.Envelope); ok {
		span.SetAttributes(
			attribute.Int("mediator.status_code", env.StatusCode()),
			attribute.Bool("mediator.success", env.IsSuccess()),
		)
		if !env.IsSuccess() && env.StatusCode() >= 500 {
			span.SetStatus(codes.Error, "request failed")
		}
	}
	return result, nil
}
