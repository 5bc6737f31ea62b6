// SPDX-License-Identifier: MIT

// Package logging builds the process logger: a logr.Logger backed by zap.
// Logs always go to stderr; stdout is reserved for the response document.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted by New. logr verbosity V(1) maps to "debug".
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger at the given level and format, and a flush function
// that must be called before the process exits.
func New(level, format string) (logr.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("logging: %w", err)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return logr.Discard(), func() {}, fmt.Errorf("logging: unknown format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("logging: %w", err)
	}

	return zapr.NewLogger(zl).WithName("matinv"), func() { _ = zl.Sync() }, nil
}
