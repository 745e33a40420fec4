// File: format.go
// Title: Log Format Definitions
// Description: Output formats for log entries: JSON for machines, text and
//              console for humans.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with multiple output formats
// - 2026-09-28 v0.2.0: Dropped logfmt, deterministic field order in text output

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs one JSON object per line
	FormatJSON Format = iota

	// FormatText outputs human-readable text logs
	FormatText

	// FormatConsole outputs colored console logs for development
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, &ParseError{Input: format, Type: "format"}
	}
}

// Formatter defines the interface for log formatters
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns the default formatter for a format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return NewJSONFormatter()
	}
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+8)

	// Fields first so the reserved keys below always win
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.RequestID != "" {
		data["request_id"] = entry.RequestID
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}
	if entry.Duration > 0 {
		data["duration_ms"] = float64(entry.Duration.Microseconds()) / 1000
	}
	if entry.Caller != nil {
		data["caller"] = fmt.Sprintf("%s:%d %s", entry.Caller.File, entry.Caller.Line, entry.Caller.Function)
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter formats log entries as single-line text
type TextFormatter struct {
	TimestampFormat string
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "2006-01-02 15:04:05.000"}
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	b.WriteString(" [")
	b.WriteString(entry.Level.ShortString())
	b.WriteString("]")
	if entry.Logger != "" {
		b.WriteString(" ")
		b.WriteString(entry.Logger)
		b.WriteString(":")
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	writeTrailer(&b, entry)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// ConsoleFormatter formats log entries with ANSI colors
type ConsoleFormatter struct {
	TimestampFormat string
	Colors          bool
}

// NewConsoleFormatter creates a new console formatter with colors enabled
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TimestampFormat: "15:04:05.000", Colors: true}
}

// Format formats a log entry for an interactive terminal
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	b.WriteString(" ")
	if f.Colors {
		b.WriteString(entry.Level.Color())
		b.WriteString(entry.Level.ShortString())
		b.WriteString("\033[0m")
	} else {
		b.WriteString(entry.Level.ShortString())
	}
	if entry.Logger != "" {
		b.WriteString(" ")
		b.WriteString(entry.Logger)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	writeTrailer(&b, entry)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// writeTrailer appends request ID, sorted fields, duration and error
func writeTrailer(b *strings.Builder, entry *Entry) {
	if entry.RequestID != "" {
		fmt.Fprintf(b, " request_id=%s", entry.RequestID)
	}
	for _, k := range entry.Fields.Keys() {
		fmt.Fprintf(b, " %s=%s", k, formatValue(entry.Fields[k]))
	}
	if entry.Duration > 0 {
		fmt.Fprintf(b, " duration=%s", entry.Duration)
	}
	if entry.Caller != nil {
		fmt.Fprintf(b, " caller=%s:%d", entry.Caller.File, entry.Caller.Line)
	}
	if entry.Error != nil {
		fmt.Fprintf(b, " error=%q", entry.Error.Error())
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\n\"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
