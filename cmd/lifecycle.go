package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// LifecycleCommand runs one lifecycle operation (preview, apply, destroy)
// against a single project environment, running its merged
// infra+environment hooks around the provisioner call (§4.8, §4.9). When
// the environment declares child projects, the group orchestrator (§4.7)
// dispatches the same command across them afterward.
type LifecycleCommand struct {
	project     string
	environment string
	command     usecases.LifecycleCommand
}

// NewLifecycleCommand creates a new lifecycle command.
func NewLifecycleCommand(project, environment string, command usecases.LifecycleCommand) *LifecycleCommand {
	return &LifecycleCommand{project: project, environment: environment, command: command}
}

// Execute runs the lifecycle command.
func (c *LifecycleCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("%s: %w", c.command, err)
	}

	infra, err := w.metadata.Infrastructure(ctx, root)
	if err != nil {
		return fmt.Errorf("%s: %w", c.command, err)
	}

	env, err := w.metadata.Environment(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("%s: %w", c.command, err)
	}

	if env.IsDependencyOnly() {
		w.progress.ReportInfo(fmt.Sprintf("%s:%s is dependency-only; nothing to run", c.project, c.environment))
		return nil
	}

	exec := resolveExecutor(env.Spec.Executor.Name)
	if !exec.IsAvailable() {
		return fmt.Errorf("%s: provisioner %q not found in PATH", c.command, exec.Name())
	}

	runner := usecases.NewRunHooks(w.hooks)
	effectiveHooks := infra.Spec.Hooks.Merge(env.Spec.Hooks)
	prePhase, postPhase := hookPhasesFor(c.command)

	if err := runner.Execute(ctx, env.Path, prePhase, effectiveHooks); err != nil {
		var cancelErr *entities.HookCancelError
		if errors.As(err, &cancelErr) {
			w.progress.ReportInfo(fmt.Sprintf("hook %q cancelled the %s", cancelErr.Command, c.command))
			return nil
		}
		return fmt.Errorf("%s: %w", c.command, err)
	}

	if _, err := runLifecycleExecutor(ctx, exec, env.Path, c.command); err != nil {
		return fmt.Errorf("%s: %w", c.command, err)
	}
	w.progress.ReportSuccess(fmt.Sprintf("%s %s:%s complete", c.command, c.project, c.environment))

	if err := runner.Execute(ctx, env.Path, postPhase, effectiveHooks); err != nil {
		var cancelErr *entities.HookCancelError
		if errors.As(err, &cancelErr) {
			w.progress.ReportInfo(fmt.Sprintf("hook %q cancelled after the %s", cancelErr.Command, c.command))
			return nil
		}
		return fmt.Errorf("%s: %w", c.command, err)
	}

	if len(env.Spec.Projects) == 0 {
		return nil
	}

	group := usecases.NewOrchestrateGroup(w.projects, w.packs, w.engine, exec, w.hooks, usecases.WithOrchestratorLogger(w.logger))
	results, err := group.RunLifecycle(ctx, root, env, infra.Spec.Hooks, c.command)
	if err != nil {
		return fmt.Errorf("%s: child projects: %w", c.command, err)
	}
	for _, r := range results {
		switch {
		case r.Cancelled:
			w.progress.ReportInfo(fmt.Sprintf("child %s:%s cancelled by hook", r.Child.Name, r.Child.Environment))
		case r.Skipped:
			w.progress.ReportInfo(fmt.Sprintf("child %s:%s is dependency-only; skipped", r.Child.Name, r.Child.Environment))
		default:
			w.progress.ReportSuccess(fmt.Sprintf("child %s:%s complete", r.Child.Name, r.Child.Environment))
		}
	}

	return nil
}

func hookPhasesFor(command usecases.LifecycleCommand) (pre, post entities.HookPhase) {
	switch command {
	case usecases.LifecyclePreview:
		return entities.HookPrePreview, entities.HookPostPreview
	case usecases.LifecycleDestroy:
		return entities.HookPreDestroy, entities.HookPostDestroy
	default:
		return entities.HookPreApply, entities.HookPostApply
	}
}

func runLifecycleExecutor(ctx context.Context, exec usecases.Executor, envDir string, command usecases.LifecycleCommand) (usecases.ProcessResult, error) {
	switch command {
	case usecases.LifecyclePreview:
		if _, err := exec.Init(ctx, envDir, nil); err != nil {
			return usecases.ProcessResult{}, err
		}
		return exec.Plan(ctx, envDir, nil)
	case usecases.LifecycleDestroy:
		return exec.Destroy(ctx, envDir, nil)
	default:
		if _, err := exec.Init(ctx, envDir, nil); err != nil {
			return usecases.ProcessResult{}, err
		}
		return exec.Apply(ctx, envDir, nil)
	}
}

// RefreshCommand refreshes provider-tracked state for a single project
// environment. Refresh has no declared hook phase (§4.8) and is not
// dispatched across an environment's child projects.
type RefreshCommand struct {
	project     string
	environment string
}

// NewRefreshCommand creates a new refresh command.
func NewRefreshCommand(project, environment string) *RefreshCommand {
	return &RefreshCommand{project: project, environment: environment}
}

// Execute runs the refresh command.
func (c *RefreshCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	env, err := w.metadata.Environment(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	if env.IsDependencyOnly() {
		w.progress.ReportInfo(fmt.Sprintf("%s:%s is dependency-only; nothing to run", c.project, c.environment))
		return nil
	}

	exec := resolveExecutor(env.Spec.Executor.Name)
	if !exec.IsAvailable() {
		return fmt.Errorf("refresh: provisioner %q not found in PATH", exec.Name())
	}

	if _, err := exec.Refresh(ctx, env.Path, nil); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	w.progress.ReportSuccess(fmt.Sprintf("refresh %s:%s complete", c.project, c.environment))
	return nil
}
