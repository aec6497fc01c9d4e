package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "DeBuG"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
		{name: "empty level falls back to info", logLevel: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tc.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)

			// Setup installs the logger as the process default.
			assert.Equal(t, log, slog.Default())
		})
	}
}

func TestFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	assert.Equal(t, custom, logger.FromContext(ctx))

	// A bare context falls back to the process default.
	assert.NotNil(t, logger.FromContext(context.Background()))

	// A nil logger leaves the context untouched.
	unchanged := logger.WithLogger(context.Background(), nil)
	assert.Equal(t, slog.Default(), logger.FromContext(unchanged))
}

func TestFromContextOrDefault(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The context logger wins when present.
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Equal(t, custom, logger.FromContextOrDefault(ctx, fallback))

	// The provided default wins over the process default.
	assert.Equal(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	// Never returns nil.
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
}
