package testutil

import (
	"log/slog"

	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mcoot/crystalclicker/internal/logging"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return logging.Nop()
}

// ObservedLogger returns a logger whose entries at debug and above are
// captured for assertions
func ObservedLogger() (*slog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return slog.New(zapslog.NewHandler(core)), logs
}
