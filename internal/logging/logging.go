// ABOUTME: Logger construction for the chime binaries
// ABOUTME: Builds zap sugared loggers writing to a log file and optionally the console
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where logs go and how verbose they are
type Options struct {
	// Debug enables debug level and development formatting
	Debug bool
	// File receives every log line when set
	File string
	// Console also writes to stderr. Off while the TUI owns the terminal.
	Console bool
}

// New builds a sugared logger from opts
func New(opts Options) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "console"
	cfg.DisableStacktrace = !opts.Debug

	cfg.OutputPaths = outputPaths(opts)
	cfg.ErrorOutputPaths = []string{"stderr"}

	cfg.EncoderConfig.EncodeCaller = nil
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	cfg.EncoderConfig.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%-12s", name))
	}
	if opts.Console && opts.File == "" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Sugar(), nil
}

func outputPaths(opts Options) []string {
	var paths []string
	if opts.File != "" {
		paths = append(paths, opts.File)
	}
	if opts.Console || len(paths) == 0 {
		paths = append(paths, "stderr")
	}
	return paths
}
