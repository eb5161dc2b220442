package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

// captureStderr redirects os.Stderr for the duration of fn and returns
// every line it wrote.
func captureStderr(t *testing.T, fn func()) []string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	w.Close()
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", line, err)
	}
	return entry
}

func TestLogger_InfoEmitsJSONLine(t *testing.T) {
	logger := New(LevelInfo)
	lines := captureStderr(t, func() {
		logger.Info("rendered template", "project", "vpc", "environment", "dev")
	})
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	entry := decodeLine(t, lines[0])
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "rendered template" {
		t.Errorf("message = %v, want %q", entry["message"], "rendered template")
	}
	if entry["project"] != "vpc" || entry["environment"] != "dev" {
		t.Errorf("fields not merged into entry: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func TestLogger_DebugSuppressedAboveDebugLevel(t *testing.T) {
	logger := New(LevelInfo)
	lines := captureStderr(t, func() {
		logger.Debug("should not appear")
	})
	if len(lines) != 0 {
		t.Errorf("expected no output at info level, got %v", lines)
	}
}

func TestLogger_DebugEmittedAtDebugLevel(t *testing.T) {
	logger := New(LevelDebug)
	lines := captureStderr(t, func() {
		logger.Debug("trace detail")
	})
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
}

func TestLogger_ErrorIncludesErrorField(t *testing.T) {
	logger := New(LevelInfo)
	lines := captureStderr(t, func() {
		logger.Error("apply failed", errors.New("exit status 1"), "project", "vpc")
	})
	entry := decodeLine(t, lines[0])
	if entry["error"] != "exit status 1" {
		t.Errorf("error field = %v, want %q", entry["error"], "exit status 1")
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
}

func TestLogger_WithFieldsPersistsAcrossCalls(t *testing.T) {
	base := New(LevelInfo)
	scoped := base.WithFields("project", "vpc")

	lines := captureStderr(t, func() {
		scoped.Info("first")
		scoped.Warn("second")
	})
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	for _, line := range lines {
		entry := decodeLine(t, line)
		if entry["project"] != "vpc" {
			t.Errorf("persistent field missing from entry: %v", entry)
		}
	}
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	base := New(LevelInfo)
	_ = base.WithFields("project", "vpc")

	lines := captureStderr(t, func() {
		base.Info("unscoped")
	})
	entry := decodeLine(t, lines[0])
	if _, ok := entry["project"]; ok {
		t.Errorf("parent logger picked up child's field: %v", entry)
	}
}

func TestLogger_WithContextPreservesFields(t *testing.T) {
	base := New(LevelInfo).WithFields("component", "renderer")
	scoped := base.WithContext(context.WithValue(context.Background(), struct{}{}, "run-id"))

	lines := captureStderr(t, func() {
		scoped.Info("context-scoped")
	})
	entry := decodeLine(t, lines[0])
	if entry["component"] != "renderer" {
		t.Errorf("WithContext dropped prior fields: %v", entry)
	}
}

func TestLogger_NonStringKeysAreSkipped(t *testing.T) {
	logger := New(LevelInfo)
	lines := captureStderr(t, func() {
		logger.Info("odd keys", 42, "ignored", "valid", "kept")
	})
	entry := decodeLine(t, lines[0])
	if entry["valid"] != "kept" {
		t.Errorf("expected the valid string-keyed pair to survive: %v", entry)
	}
	if len(entry) != 4 { // timestamp, level, message, valid
		t.Errorf("expected the non-string key to be dropped, entry = %v", entry)
	}
}
