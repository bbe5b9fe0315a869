package behaviours_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/andrescamacho/entries-go/internal/application/behaviours"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

func TestTracing_OneSpanPerDispatch(t *testing.T) {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	m := mediator.NewMediator()
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[*lookupQuery, mediator.Result[string]](
		func(ctx context.Context, q *lookupQuery) (mediator.Result[string], error) {
			return mediator.Failure[string](404, "Entry not found."), nil
		})))
	require.NoError(t, m.Use(behaviours.NewTracing(provider)))

	// Act
	_, err := mediator.Send(context.Background(), m, &lookupQuery{})

	// Assert
	require.NoError(t, err)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mediator.lookupQuery", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("mediator.kind", "query"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("mediator.status_code", 404))
}
