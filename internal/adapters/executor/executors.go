package executor

import (
	"context"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// NewOpenTofu creates a provisioner executor backed by the `tofu` binary.
func NewOpenTofu() *ProcessExecutor {
	return NewProcessExecutor("tofu", "tofu")
}

// NewTerraform creates a provisioner executor backed by the `terraform`
// binary.
func NewTerraform() *ProcessExecutor {
	return NewProcessExecutor("terraform", "terraform")
}

// Ensure None implements usecases.Executor.
var _ usecases.Executor = (*None)(nil)

// None is the dependency-only executor sentinel: a project environment
// materialised purely to satisfy another project's dependency is never
// directly provisioned, so every operation is a no-op success.
type None struct{}

// NewNone creates the no-op executor.
func NewNone() *None { return &None{} }

func (n *None) Name() string      { return "none" }
func (n *None) IsAvailable() bool { return true }

func (n *None) Init(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return usecases.ProcessResult{}, nil
}

func (n *None) Plan(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return usecases.ProcessResult{}, nil
}

func (n *None) Apply(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return usecases.ProcessResult{}, nil
}

func (n *None) Destroy(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return usecases.ProcessResult{}, nil
}

func (n *None) Refresh(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return usecases.ProcessResult{}, nil
}

func (n *None) DetectDrift(ctx context.Context, envDir string) (bool, []entities.DriftChange, error) {
	return false, nil, nil
}
