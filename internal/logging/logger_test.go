package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.WarnLevel,
		"verbose": zapcore.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Setenv("ACTIONS_LOG_LEVEL", "")
	ctx := context.Background()

	logger := NewLogger(&config.RuntimeConfig{LogLevel: "error"})
	assert.False(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))

	logger = NewLogger(&config.RuntimeConfig{LogLevel: "error", Debug: true})
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))

	t.Setenv("ACTIONS_LOG_LEVEL", "info")
	logger = NewLogger(&config.RuntimeConfig{LogLevel: "error"})
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
}
