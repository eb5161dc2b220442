package cmd

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// DriftCommand detects infrastructure drift for one project environment
// by running the provisioner's refresh-and-detailed-plan sequence.
type DriftCommand struct {
	project     string
	environment string
}

// NewDriftCommand creates a new drift command.
func NewDriftCommand(project, environment string) *DriftCommand {
	return &DriftCommand{project: project, environment: environment}
}

// Execute runs the drift command.
func (c *DriftCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("drift: %w", err)
	}

	env, err := w.metadata.Environment(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("drift: %w", err)
	}

	if env.IsDependencyOnly() {
		w.progress.ReportInfo(fmt.Sprintf("%s:%s is dependency-only; skipping drift detection", c.project, c.environment))
		return nil
	}

	exec := resolveExecutor(env.Spec.Executor.Name)
	if !exec.IsAvailable() {
		return fmt.Errorf("drift: provisioner %q not found in PATH", exec.Name())
	}

	hasDrift, changes, err := exec.DetectDrift(ctx, env.Path)
	if err != nil {
		return fmt.Errorf("drift: %w", err)
	}

	w.report.PrintDriftReport(entities.DriftReport{
		Project:     c.project,
		Environment: c.environment,
		HasDrift:    hasDrift,
		Changes:     changes,
	})

	return nil
}
