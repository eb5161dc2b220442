// Package executor implements the provisioner port (§4.9 C11) by shelling
// out to OpenTofu or Terraform binaries, modeled on the teacher's D2
// renderer's binary-lookup-and-shell-out idiom.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure ProcessExecutor implements usecases.Executor.
var _ usecases.Executor = (*ProcessExecutor)(nil)

// ProcessExecutor implements usecases.Executor by invoking a named
// provisioner binary (tofu or terraform) as a subprocess.
type ProcessExecutor struct {
	name     string
	binary   string
	execPath string
}

// NewProcessExecutor creates a provisioner executor for the given binary
// name (e.g. "tofu", "terraform"), resolving its location via PATH.
func NewProcessExecutor(name, binary string) *ProcessExecutor {
	path, _ := exec.LookPath(binary)
	return &ProcessExecutor{name: name, binary: binary, execPath: path}
}

func (e *ProcessExecutor) Name() string { return e.name }

func (e *ProcessExecutor) IsAvailable() bool { return e.execPath != "" }

func (e *ProcessExecutor) Init(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return e.run(ctx, envDir, append([]string{"init"}, extraArgs...))
}

func (e *ProcessExecutor) Plan(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return e.run(ctx, envDir, append([]string{"plan"}, extraArgs...))
}

func (e *ProcessExecutor) Apply(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	args := append([]string{"apply"}, extraArgs...)
	if !containsFlag(extraArgs, "-auto-approve") {
		args = append(args, "-auto-approve")
	}
	return e.run(ctx, envDir, args)
}

func (e *ProcessExecutor) Destroy(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	args := append([]string{"destroy"}, extraArgs...)
	if !containsFlag(extraArgs, "-auto-approve") {
		args = append(args, "-auto-approve")
	}
	return e.run(ctx, envDir, args)
}

func (e *ProcessExecutor) Refresh(ctx context.Context, envDir string, extraArgs []string) (usecases.ProcessResult, error) {
	return e.run(ctx, envDir, append([]string{"refresh"}, extraArgs...))
}

// DetectDrift runs refresh followed by a detailed-exit-code plan, parsing
// the plan output for drift changes. Exit code 2 signals drift present.
func (e *ProcessExecutor) DetectDrift(ctx context.Context, envDir string) (bool, []entities.DriftChange, error) {
	if _, err := e.run(ctx, envDir, []string{"refresh"}); err != nil {
		return false, nil, fmt.Errorf("detect drift: refresh: %w", err)
	}

	result, err := e.run(ctx, envDir, []string{"plan", "-detailed-exitcode", "-no-color"})
	if err != nil {
		return false, nil, fmt.Errorf("detect drift: plan: %w", err)
	}

	switch result.ExitCode {
	case 0:
		return false, nil, nil
	case 2:
		changes := parsePlanOutput(string(result.Stdout))
		return true, changes, nil
	default:
		return false, nil, &entities.ExecutorError{Executor: e.name, Args: []string{"plan", "-detailed-exitcode"}, ExitCode: result.ExitCode, Stderr: string(result.Stderr)}
	}
}

func (e *ProcessExecutor) run(ctx context.Context, envDir string, args []string) (usecases.ProcessResult, error) {
	if !e.IsAvailable() {
		return usecases.ProcessResult{}, fmt.Errorf("%s: binary %q not found in PATH", e.name, e.binary)
	}

	cmd := exec.CommandContext(ctx, e.execPath, args...)
	cmd.Dir = envDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := usecases.ProcessResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("%s %v: %w", e.binary, args, err)
	}

	return result, nil
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}
