package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/berrythewa/clipsense/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileName is the daemon log written under the configured log directory
const LogFileName = "clipsense.log"

// LoggerOptions adjusts the configured logger for a single invocation
type LoggerOptions struct {
	// Verbose forces debug level with a development encoder on stderr
	Verbose bool
	// Quiet raises the level to warn
	Quiet bool
	// Console disables file output, used by one-shot commands
	Console bool
}

// NewLogger creates a new logger instance
func NewLogger(cfg *config.Config, opts LoggerOptions) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	switch {
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Quiet:
		level = zapcore.WarnLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := cfg.Log.Format
	if encoding == "" || opts.Verbose {
		encoding = "console"
	}
	if encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	outputs := []string{"stderr"}
	if cfg.Log.EnableFileLogging && !opts.Console && !opts.Verbose {
		logDir := cfg.SystemPaths.LogDir
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		outputs = []string{filepath.Join(logDir, LogFileName)}
	}

	zcfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: opts.Verbose,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	return zcfg.Build()
}
