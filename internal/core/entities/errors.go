// Package entities contains the domain entities for pmp.
// These are pure Go structs with validation logic and zero external dependencies.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors
var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrInvalidName         = errors.New("name contains invalid characters")
	ErrEmptyID             = errors.New("id cannot be empty")
	ErrEmptyPath           = errors.New("path cannot be empty")
	ErrEmptySource         = errors.New("source cannot be empty")
	ErrDuplicateProject    = errors.New("project already exists")
	ErrDuplicateEnvironment = errors.New("project environment already exists")
	ErrProjectNotFound     = errors.New("project not found")
	ErrEnvironmentNotFound = errors.New("project environment not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrPluginNotFound      = errors.New("plugin not found")
	ErrInvalidHierarchy    = errors.New("invalid infrastructure hierarchy")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Entity  string // Entity type (e.g., "System", "Container")
	Field   string // Field that failed validation
	Value   string // The invalid value (may be truncated)
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(entity, field, value, message string, err error) *ValidationError {
	// Truncate value if too long
	if len(value) > 50 {
		value = value[:47] + "..."
	}
	return &ValidationError{
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d validation errors:\n", len(ve)))
	for i, err := range ve {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return b.String()
}

// HasErrors returns true if there are validation errors.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add appends a validation error to the collection.
func (ve *ValidationErrors) Add(entity, field, value, message string, err error) {
	*ve = append(*ve, NewValidationError(entity, field, value, message, err))
}

// NotFoundError represents an entity not found error.
type NotFoundError struct {
	Entity string
	ID     string
	Parent string // Optional parent context
}

func (e *NotFoundError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s '%s' not found in %s", e.Entity, e.ID, e.Parent)
	}
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
}

// DuplicateError represents a duplicate entity error.
type DuplicateError struct {
	Entity string
	ID     string
	Parent string
}

func (e *DuplicateError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s '%s' already exists in %s", e.Entity, e.ID, e.Parent)
	}
	return fmt.Sprintf("%s '%s' already exists", e.Entity, e.ID)
}

// ParseError wraps a failure to parse a metadata document, template
// source, or D2-like graph fragment, carrying the originating file path
// and, where known, a line number (0 when not applicable).
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: parse error: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: parse error: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CycleError reports a dependency cycle discovered while building or
// topologically sorting a DependencyGraph. Cycle lists node IDs in the
// order the cycle was traversed, starting and ending on the same node.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// ExecutorError wraps a non-zero exit or launch failure from an
// invocation of an external provisioner binary (tofu, terraform).
type ExecutorError struct {
	Executor string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Executor, strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("%s %s: exit code %d: %s", e.Executor, strings.Join(e.Args, " "), e.ExitCode, e.Stderr)
}

func (e *ExecutorError) Unwrap() error { return e.Err }

// HookCancelError indicates a lifecycle hook command exited non-zero
// during a pre-* phase, cancelling the operation it guarded.
type HookCancelError struct {
	Phase    string
	Command  string
	ExitCode int
}

func (e *HookCancelError) Error() string {
	return fmt.Sprintf("hook %q (phase %s) exited %d, cancelling operation", e.Command, e.Phase, e.ExitCode)
}

// HookFailureError indicates a post-* phase hook failed; unlike
// HookCancelError it is reported but does not undo an already-completed
// operation.
type HookFailureError struct {
	Phase    string
	Command  string
	ExitCode int
	Err      error
}

func (e *HookFailureError) Error() string {
	return fmt.Sprintf("hook %q (phase %s) failed: exit code %d", e.Command, e.Phase, e.ExitCode)
}

func (e *HookFailureError) Unwrap() error { return e.Err }

// InterpolationError reports an unresolved template placeholder or a
// helper invocation that failed during render (§4.6).
type InterpolationError struct {
	Template string
	Token    string
	Err      error
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("%s: failed to interpolate %q: %v", e.Template, e.Token, e.Err)
}

func (e *InterpolationError) Unwrap() error { return e.Err }

// InterpolationErrors aggregates every unresolved or invalid token found
// in a single document (§7: "fatal for the file; errors aggregated").
type InterpolationErrors []*InterpolationError

func (ie InterpolationErrors) Error() string {
	if len(ie) == 0 {
		return "no interpolation errors"
	}
	if len(ie) == 1 {
		return ie[0].Error()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d interpolation errors:\n", len(ie)))
	for i, err := range ie {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return b.String()
}

// HasErrors returns true if there are interpolation errors.
func (ie InterpolationErrors) HasErrors() bool {
	return len(ie) > 0
}
