package cli

import (
	"bufio"
	"strings"
	"testing"
)

func TestPromptString_WithValue(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("my value\n"))
	prompts := NewPrompts(reader)

	result, err := prompts.PromptString("Enter text", "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "my value" {
		t.Errorf("expected 'my value', got %q", result)
	}
}

func TestPromptString_Empty_UsesDefault(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\n"))
	prompts := NewPrompts(reader)

	result, err := prompts.PromptString("Enter text", "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "default" {
		t.Errorf("expected 'default', got %q", result)
	}
}

func TestPromptString_TrimsWhitespace(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  trimmed  \n"))
	prompts := NewPrompts(reader)

	result, _ := prompts.PromptString("Enter text", "")
	if result != "trimmed" {
		t.Errorf("expected 'trimmed', got %q", result)
	}
}

func TestPromptBool_Full(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"yes\n", true},
		{"y\n", true},
		{"Y\n", true},
		{"YES\n", true},
		{"no\n", false},
		{"n\n", false},
		{"N\n", false},
	}

	for _, tt := range tests {
		reader := bufio.NewReader(strings.NewReader(tt.input))
		prompts := NewPrompts(reader)
		result, err := prompts.PromptBool("Continue?", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != tt.expected {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.expected, result)
		}
	}
}

func TestPromptBool_Empty_UsesDefault(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\n"))
	prompts := NewPrompts(reader)

	result, _ := prompts.PromptBool("Continue?", true)
	if !result {
		t.Error("expected true (default), got false")
	}
}

func TestPromptSelect_ValidOption(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("2\n"))
	prompts := NewPrompts(reader)

	result, err := prompts.PromptSelect("Choose:", []string{"Option 1", "Option 2", "Option 3"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Option 2" {
		t.Errorf("expected 'Option 2', got %q", result)
	}
}

func TestPromptSelect_InvalidOption_UsesDefault(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("99\n"))
	prompts := NewPrompts(reader)

	result, _ := prompts.PromptSelect("Choose:", []string{"Option 1", "Option 2"}, "Option 1")
	if result != "Option 1" {
		t.Errorf("expected default 'Option 1', got %q", result)
	}
}

func TestPromptSelect_EmptyOptions_ReturnsDefault(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\n"))
	prompts := NewPrompts(reader)

	result, _ := prompts.PromptSelect("Choose:", []string{}, "fallback")
	if result != "fallback" {
		t.Errorf("expected 'fallback', got %q", result)
	}
}

func TestPromptSelect_SingleOption(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\n"))
	prompts := NewPrompts(reader)

	result, _ := prompts.PromptSelect("Choose:", []string{"Only Option"}, "")
	if result != "Only Option" {
		t.Errorf("expected 'Only Option', got %q", result)
	}
}
