package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger instance. It discards everything until Init runs.
var Log = zap.NewNop()

type Options struct {
	// Development writes colored console output; otherwise JSON.
	Development bool
	// Level overrides the default level (debug in development, info
	// otherwise). Empty keeps the default.
	Level string
	// Component is attached to every entry, e.g. "api" or "seed".
	Component string
}

// Init replaces the global logger.
func Init(opts Options) error {
	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level.SetLevel(level)
	}

	built, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return err
	}
	if opts.Component != "" {
		built = built.With(zap.String("component", opts.Component))
	}
	Log = built
	return nil
}

// Sync flushes buffered entries. Call it before exit.
func Sync() {
	_ = Log.Sync()
}
