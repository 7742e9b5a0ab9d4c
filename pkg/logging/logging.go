// Package logging builds the process-wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Logger is the global logger instance
var Logger = zap.NewNop()

// Options selects verbosity for Setup.
type Options struct {
	Verbose    bool // Debug level with caller information
	Quiet      bool // Warnings and errors only
	AppName    string
	AppVersion string
}

// Setup builds a console logger on stderr and installs it globally.
// Colored levels are used only when stderr is a terminal.
func Setup(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.Sampling = nil
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if opts.Quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    opts.AppName,
		"appVersion": opts.AppVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Logger = logger
	zap.ReplaceGlobals(Logger)
	return Logger, nil
}
