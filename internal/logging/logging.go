package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Config selects the log level, encoding and destination
type Config struct {
	Level    string // debug, info, warn, error
	Format   string // json or console
	Output   string // stdout, stderr or file
	FilePath string // used when Output is file
}

// New builds a slog.Logger backed by a zap core writing to w.
// The returned sync func flushes buffered entries.
func New(cfg Config, w io.Writer) (*slog.Logger, func() error) {
	core := NewCore(cfg, zapcore.AddSync(w))
	return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true))), core.Sync
}

// Open builds a logger writing to the destination named by cfg.Output.
// The returned close func syncs the core and closes any opened file.
func Open(cfg Config) (*slog.Logger, func() error, error) {
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		logger, sync := New(cfg, os.Stdout)
		return logger, sync, nil
	case "stderr":
		logger, sync := New(cfg, os.Stderr)
		return logger, sync, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("log file path required when output is file")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger, sync := New(cfg, f)
		return logger, func() error {
			return errors.Join(sync(), f.Close())
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}
}

// NewCore builds the zap core used by New
func NewCore(cfg Config, ws zapcore.WriteSyncer) zapcore.Core {
	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "console") {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.MessageKey = "message"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeDuration = zapcore.MillisDurationEncoder
		encCfg.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewCore(encoder, ws, ParseLevel(cfg.Level))
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop returns a logger that discards everything
func Nop() *slog.Logger {
	return slog.New(zapslog.NewHandler(zapcore.NewNopCore()))
}
