package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure ShellHookRunner implements usecases.HookRunner.
var _ usecases.HookRunner = (*ShellHookRunner)(nil)

// ShellHookRunner implements the hook port (§4.8 C12) by running each
// hook command through "sh -c" with the environment directory as cwd,
// the same subprocess-and-capture idiom ProcessExecutor uses for the
// provisioner binary itself.
type ShellHookRunner struct{}

// NewShellHookRunner creates a new ShellHookRunner.
func NewShellHookRunner() *ShellHookRunner { return &ShellHookRunner{} }

// Run executes command via "sh -c" in envDir, returning its process
// result. A non-zero exit is domain signal (cancel or failure,
// classified by the caller), never a Go error by itself.
func (r *ShellHookRunner) Run(ctx context.Context, envDir string, command string) (usecases.ProcessResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
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
		return result, err
	}

	return result, nil
}
