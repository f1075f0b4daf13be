// Package observability wires process-wide structured logging.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured process logger. JSON output, suitable for
// aggregation.
var Logger = zap.NewNop()

// CLILogger is the human-facing logger used by commands. Console output to
// stderr so command stdout stays machine-readable.
var CLILogger = zap.NewNop()

// Init replaces the package loggers at the given level. Unknown levels fall
// back to info.
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	prodCfg := zap.NewProductionConfig()
	prodCfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := prodCfg.Build()
	if err != nil {
		return err
	}

	cliCfg := zap.NewDevelopmentConfig()
	cliCfg.Level = zap.NewAtomicLevelAt(lvl)
	cliCfg.OutputPaths = []string{"stderr"}
	cli, err := cliCfg.Build()
	if err != nil {
		return err
	}

	Logger = logger
	CLILogger = cli
	return nil
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = Logger.Sync()
	_ = CLILogger.Sync()
}
