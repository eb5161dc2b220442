package cmd

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// PolicyCommand evaluates Rego policies against a project environment's
// resolved spec document.
type PolicyCommand struct {
	project           string
	environment       string
	entrypointPrefix  string
	customPolicyPaths []string
	format            string
}

// NewPolicyCommand creates a new policy command.
func NewPolicyCommand(project, environment, entrypointPrefix string, customPolicyPaths []string, format string) *PolicyCommand {
	return &PolicyCommand{
		project:           project,
		environment:       environment,
		entrypointPrefix:  entrypointPrefix,
		customPolicyPaths: customPolicyPaths,
		format:            format,
	}
}

// Execute runs the policy check command.
func (c *PolicyCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	env, err := w.metadata.Environment(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	input := map[string]any{
		"project":     c.project,
		"environment": c.environment,
		"spec":        env.Spec,
	}

	searchPaths := w.policySearchPaths(ctx, root, c.customPolicyPaths)
	check := usecases.NewEvaluatePolicy(w.policies)
	_, report, err := check.Check(ctx, searchPaths, input, c.entrypointPrefix)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	if err := w.printFormatted(c.format, report, func() {
		w.report.PrintComplianceReport(report)
	}); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	failed := 0
	for _, result := range report.Results {
		if result.HasErrors() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("policy: %d policy violation(s) found", failed)
	}

	return nil
}
