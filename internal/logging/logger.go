package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration. Records
// go through a zap console core on stderr so stdout stays clean for
// command output.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)
	if val := os.Getenv("ACTIONS_LOG_LEVEL"); val != "" {
		level = ParseLevel(val)
	}
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.CallerKey = zapcore.OmitKey
	// Drop timestamps outside debug for cleaner output
	if level != zapcore.DebugLevel {
		encoderCfg.TimeKey = zapcore.OmitKey
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	return slog.New(zapslog.NewHandler(core))
}

// ParseLevel maps a level name to a zap level, defaulting to warn so routine
// runs only print progress output.
func ParseLevel(val string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning", "":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// unknown value, keep default
		return zapcore.WarnLevel
	}
}
