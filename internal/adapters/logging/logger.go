// Package logging provides structured JSON logging for the pmp CLI.
// Every line goes to stderr, one JSON object per call, so lifecycle
// commands can pipe rendered reports (§6) through stdout untouched.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

var _ usecases.Logger = (*Logger)(nil)

// Level gates which calls actually produce output; Debug is the only
// level callers can suppress (Info/Warn/Error always emit).
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Logger emits one JSON line per call to stderr, carrying whatever
// context and persistent fields were attached via WithContext/WithFields.
type Logger struct {
	level  Level
	fields map[string]any
	ctx    context.Context
}

// New builds a Logger gated at level; Debug calls below that level are
// dropped before any field parsing or marshalling happens.
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		fields: make(map[string]any),
		ctx:    context.Background(),
	}
}

// WithContext returns a logger that includes the given context.
// This can be used for request/operation tracking via context values.
func (l *Logger) WithContext(ctx context.Context) usecases.Logger {
	newLogger := &Logger{
		level:  l.level,
		fields: copyFields(l.fields),
		ctx:    ctx,
	}
	return newLogger
}

// WithFields returns a logger with additional structured fields.
func (l *Logger) WithFields(keysAndValues ...any) usecases.Logger {
	newLogger := &Logger{
		level:  l.level,
		fields: copyFields(l.fields),
		ctx:    l.ctx,
	}
	mergeKeysAndValues(newLogger.fields, keysAndValues)
	return newLogger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	if l.level != LevelDebug {
		return
	}
	l.log(LevelDebug, msg, keysAndValues)
}

// Info logs an info message.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.log(LevelWarn, msg, keysAndValues)
}

// Error logs an error message.
func (l *Logger) Error(msg string, err error, keysAndValues ...any) {
	fields := parseKeysAndValues(keysAndValues)
	if err != nil {
		fields["error"] = err.Error()
	}
	l.logWithFields(LevelError, msg, fields)
}

// log writes a structured JSON log entry to stderr.
func (l *Logger) log(level Level, message string, keysAndValues []any) {
	fields := parseKeysAndValues(keysAndValues)
	l.logWithFields(level, message, fields)
}

// logWithFields writes a structured JSON log entry to stderr with pre-parsed fields.
func (l *Logger) logWithFields(level Level, message string, fields map[string]any) {
	entry := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"message":   message,
	}

	// Merge logger's persistent fields
	maps.Copy(entry, l.fields)

	// Merge call-specific fields
	maps.Copy(entry, fields)

	// Marshal to JSON
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s\n", string(data))
}

// parseKeysAndValues converts variadic key-value pairs into a map.
// Keys must be strings; pairs with a non-string key, and a trailing key
// without a value, are skipped silently.
func parseKeysAndValues(keysAndValues []any) map[string]any {
	fields := make(map[string]any)
	mergeKeysAndValues(fields, keysAndValues)
	return fields
}

// mergeKeysAndValues merges variadic key-value pairs into an existing map.
func mergeKeysAndValues(fields map[string]any, keysAndValues []any) {
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			// Skip non-string keys but continue processing
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
}

// copyFields creates a shallow copy of the fields map.
func copyFields(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	maps.Copy(dst, src)
	return dst
}
