package usecases

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// cancelExitCode is the convention a hook command uses to signal a
// graceful abort of the current lifecycle operation rather than a hard
// failure (§4.8's {continue, cancel} outcome).
const cancelExitCode = 75

// RunHooks executes the shell hooks a given HookSet declares for one
// lifecycle phase (§4.8 C12); it does not merge hook sets itself.
type RunHooks struct {
	runner HookRunner
}

// NewRunHooks creates a new RunHooks use case.
func NewRunHooks(runner HookRunner) *RunHooks {
	return &RunHooks{runner: runner}
}

// Execute runs every hook declared for phase, in order, against envDir.
// It returns nil on success, *entities.HookCancelError if a hook requests
// a graceful abort, or *entities.HookFailureError for any other non-zero
// exit. Callers must treat HookCancelError as a warning, not a fatal error.
func (uc *RunHooks) Execute(ctx context.Context, envDir string, phase entities.HookPhase, hooks entities.HookSet) error {
	for _, command := range hooks.ForPhase(phase) {
		result, err := uc.runner.Run(ctx, envDir, command)
		if err != nil {
			return fmt.Errorf("run hook %q (%s): %w", command, phase, err)
		}
		switch {
		case result.ExitCode == 0:
			continue
		case result.ExitCode == cancelExitCode:
			return &entities.HookCancelError{Phase: string(phase), Command: command, ExitCode: result.ExitCode}
		default:
			return &entities.HookFailureError{Phase: string(phase), Command: command, ExitCode: result.ExitCode}
		}
	}
	return nil
}
