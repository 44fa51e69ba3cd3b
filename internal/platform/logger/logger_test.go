package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name        string
		level       string
		debugLogged bool
		warned      bool
	}{
		{name: "debug", level: "debug", debugLogged: true},
		{name: "info", level: "INFO"},
		{name: "invalid falls back to info", level: "verbose", warned: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Same(t, l, slog.Default())

			l.Debug("debug message")
			l.Info("info message")

			entries, err := buf.Entries()
			require.NoError(t, err)

			var messages []string
			for _, e := range entries {
				messages = append(messages, e["msg"].(string))
				assert.Equal(t, "microcase-api", e["service"])
			}
			assert.Contains(t, messages, "info message")
			assert.Equal(t, tc.debugLogged, contains(messages, "debug message"))
			assert.Equal(t, tc.warned, contains(messages, "invalid log level configured, using default level"))
		})
	}
}

func TestSetupWithWriter_TextFormat(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", LogFormat: "text"}, buf)
	require.NoError(t, err)

	l.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestContextLogger(t *testing.T) {
	reqLogger, _ := logger.NewTestLogger()
	fallback, _ := logger.NewTestLogger()

	ctx := logger.WithLogger(context.Background(), reqLogger)
	assert.Same(t, reqLogger, logger.FromContext(ctx))
	assert.Same(t, reqLogger, logger.FromContextOrDefault(ctx, fallback))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))

	unchanged := logger.WithLogger(context.Background(), nil)
	assert.Same(t, fallback, logger.FromContextOrDefault(unchanged, fallback))
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
