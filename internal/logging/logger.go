// Package logging builds the zap loggers used across cadvision. Logs go to
// stderr so stdout stays free for JSON echoes, previews and summaries.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cadvision/internal/config"
)

// Category names the component a child logger belongs to.
type Category string

const (
	CategoryCLI        Category = "cli"
	CategoryExtractor  Category = "extractor"
	CategoryPerception Category = "perception"
	CategoryCAD        Category = "cad"
	CategoryBatch      Category = "batch"
)

// ParseLevel maps a config level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New builds a logger writing to stderr. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	return Build(cfg, verbose, zapcore.Lock(os.Stderr))
}

// Build is New with an explicit destination.
func Build(cfg config.LoggingConfig, verbose bool, out zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	core := zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level))
	opts := []zap.Option{zap.ErrorOutput(out)}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

// For returns the child logger for a category.
func For(l *zap.Logger, c Category) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.Named(string(c))
}
