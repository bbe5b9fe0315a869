package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/entries-go/internal/application/logging"
)

func TestLoggerFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	ctx := logging.WithLogger(context.Background(), logger)
	logging.LoggerFromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLoggerFromContext_FallsBackToDiscard(t *testing.T) {
	logger := logging.LoggerFromContext(context.Background())

	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("dropped") })
}
