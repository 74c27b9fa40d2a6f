// Package logger builds the zap logger shared by notenav components.
//
// The interactive lookup owns the terminal, so logs go to a file.
package logger

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldVault     = "vault"
	FieldPath      = "path"
	FieldFile      = "file"
	FieldQuery     = "query"
	FieldMode      = "mode"
	FieldCount     = "count"
	FieldError     = "error"
	FieldComponent = "component"
)

// New returns a sugared logger writing JSON lines at level to file. An empty
// file logs to stderr.
func New(level, file string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "log level %q", level),
			"use one of debug, info, warn, error",
		)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log directory")
		}
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Named returns l scoped to component.
func Named(l *zap.SugaredLogger, component string) *zap.SugaredLogger {
	return l.Named(component).With(FieldComponent, component)
}
