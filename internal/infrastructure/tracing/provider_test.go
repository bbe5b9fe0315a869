package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/andrescamacho/entries-go/internal/infrastructure/config"
	"github.com/andrescamacho/entries-go/internal/infrastructure/tracing"
)

func TestSetup_DisabledReturnsNoopShutdown(t *testing.T) {
	provider, shutdown, err := tracing.Setup(context.Background(), config.TracingConfig{ServiceName: "entries"})

	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_EnabledBuildsSDKProvider(t *testing.T) {
	// Arrange
	cfg := config.TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4318",
		ServiceName: "entries",
		Insecure:    true,
	}

	// Act
	provider, shutdown, err := tracing.Setup(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	_, ok := provider.(*sdktrace.TracerProvider)
	assert.True(t, ok)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
