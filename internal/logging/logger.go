package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Format represents the output format for logs
type Format int

const (
	// FormatConsole is human-readable console output
	FormatConsole Format = iota
	// FormatJSON is structured JSON output
	FormatJSON
)

// String returns the string representation of a Format
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "console"
}

// ParseFormat converts a string to a Format, defaulting to console
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return FormatJSON
	}
	return FormatConsole
}

// Level represents a logging level
type Level int

const (
	// DebugLevel is for debug messages
	DebugLevel Level = iota
	// InfoLevel is for informational messages
	InfoLevel
	// WarnLevel is for warning messages
	WarnLevel
	// ErrorLevel is for error messages
	ErrorLevel
)

// String returns the string representation of a Level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides structured logging capabilities
//
// The logger is safe for concurrent use: relays running on background
// goroutines and the supervising CLI may share one instance.
type Logger struct {
	level  Level
	format Format
	output io.Writer
	preset []Field

	mu *sync.Mutex
}

// New creates a new Logger with the specified level and console format,
// writing to stderr so logs never mix with relayed output on stdout
func New(level Level) *Logger {
	return NewWithOutput(level, FormatConsole, os.Stderr)
}

// NewWithFormat creates a new Logger with the specified level and format
func NewWithFormat(level Level, format Format) *Logger {
	return NewWithOutput(level, format, os.Stderr)
}

// NewWithOutput creates a new Logger writing to the given writer
func NewWithOutput(level Level, format Format, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
		mu:     &sync.Mutex{},
	}
}

// With returns a derived Logger that includes the given fields in every
// entry. The derived logger shares the parent's output and lock.
func (l *Logger) With(fields ...Field) *Logger {
	preset := make([]Field, 0, len(l.preset)+len(fields))
	preset = append(preset, l.preset...)
	preset = append(preset, fields...)
	return &Logger{
		level:  l.level,
		format: l.format,
		output: l.output,
		preset: preset,
		mu:     l.mu,
	}
}

// Debug logs a debug message with optional fields
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an informational message with optional fields
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning message with optional fields
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error message with optional fields
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	all := fields
	if len(l.preset) > 0 {
		all = make([]Field, 0, len(l.preset)+len(fields))
		all = append(all, l.preset...)
		all = append(all, fields...)
	}

	var line string
	if l.format == FormatJSON {
		line = l.renderJSON(level, msg, all)
	} else {
		line = l.renderConsole(level, msg, all)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.output, line)
}

// renderConsole produces a human-readable "timestamp LEVEL msg k=v" line
func (l *Logger) renderConsole(level Level, msg string, fields []Field) string {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(level.String())
	b.WriteString(" ")
	b.WriteString(msg)

	for _, field := range fields {
		b.WriteString(" ")
		b.WriteString(field.Key)
		b.WriteString("=")
		b.WriteString(fmt.Sprintf("%v", field.Value))
	}

	b.WriteString("\n")
	return b.String()
}

// renderJSON produces a single-line JSON log entry
func (l *Logger) renderJSON(level Level, msg string, fields []Field) string {
	entry := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level.String(),
		"message":   msg,
	}
	for _, field := range fields {
		entry[field.Key] = field.Value
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fall back to console rendering if a field value cannot be marshaled
		return l.renderConsole(level, msg, fields)
	}
	return string(jsonBytes) + "\n"
}
