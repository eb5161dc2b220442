package executor

import (
	"context"
	"testing"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

func TestProcessExecutor_IsAvailable_UnknownBinary(t *testing.T) {
	e := NewProcessExecutor("nope", "pmp-executor-does-not-exist")
	if e.IsAvailable() {
		t.Fatal("expected unavailable for nonexistent binary")
	}
	if e.Name() != "nope" {
		t.Errorf("Name() = %q", e.Name())
	}
}

func TestProcessExecutor_Init_MissingBinaryErrors(t *testing.T) {
	e := NewProcessExecutor("nope", "pmp-executor-does-not-exist")
	_, err := e.Init(context.Background(), t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestNone_AllOperationsNoOp(t *testing.T) {
	n := NewNone()
	ctx := context.Background()
	dir := t.TempDir()

	if n.Name() != "none" || !n.IsAvailable() {
		t.Fatalf("unexpected None identity: name=%q available=%v", n.Name(), n.IsAvailable())
	}

	for _, op := range []func(context.Context, string, []string) (usecases.ProcessResult, error){
		n.Init, n.Plan, n.Apply, n.Destroy, n.Refresh,
	} {
		result, err := op(ctx, dir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ExitCode != 0 {
			t.Errorf("ExitCode = %d, want 0", result.ExitCode)
		}
	}

	hasDrift, changes, err := n.DetectDrift(ctx, dir)
	if err != nil || hasDrift || changes != nil {
		t.Errorf("DetectDrift() = %v, %v, %v; want false, nil, nil", hasDrift, changes, err)
	}
}
