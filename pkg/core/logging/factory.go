// ============================================================================
// vera - tokenizer and parser toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions turning configuration strings into loggers
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	mdwlog "github.com/msto63/vera/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format: "json", "text" or "console" (default: text)
	Format string

	// Primary output (default: os.Stderr, so stdout stays free for command output)
	Output io.Writer

	// Additional outputs written alongside Output
	AdditionalOutputs []io.Writer

	// Record file:line of the call site
	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// Validate reports the first unusable setting.
func (c LoggerConfig) Validate() error {
	if _, err := mdwlog.ParseLevel(c.Level); err != nil && c.Level != "" {
		return fmt.Errorf("log level: %w", err)
	}
	if _, err := mdwlog.ParseFormat(c.Format); err != nil && c.Format != "" {
		return fmt.Errorf("log format: %w", err)
	}
	return nil
}

// NewLogger creates a Foundation logger from cfg. Unknown level or format
// strings fall back to info and text; call Validate first to reject them.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level := parseLevel(cfg.Level)

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil || cfg.Format == "" {
		format = mdwlog.FormatText
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: cfg.EnableCaller,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// parseLevel converts a string level to mdwlog.Level
func parseLevel(level string) mdwlog.Level {
	l, err := mdwlog.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return mdwlog.LevelInfo
	}
	return l
}

// Key/value layer for packages that log with alternating key and value
// arguments (the gRPC interceptors).

// Logger wraps the Foundation logger with key/value logging methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a key/value logger backed by the process default logger
func New(name string) *Logger {
	return Wrap(mdwlog.GetDefault(), name)
}

// Wrap adapts an existing Foundation logger. A nil base discards output.
func Wrap(base *mdwlog.Logger, name string) *Logger {
	if base == nil {
		base = mdwlog.Discard()
	}
	return &Logger{
		Logger: base.WithField("component", name),
		name:   name,
	}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields. Non-string keys and a
// trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
