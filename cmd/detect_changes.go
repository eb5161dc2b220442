package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// errInfrastructureScopeChanged signals that the caller's exit-code contract
// for the change detector CLI (§6) should be 2, not 1.
var errInfrastructureScopeChanged = errors.New("infrastructure-root metadata changed")

// DetectChangesCommand reports the (project, environment, path) triples
// affected between two VCS references.
type DetectChangesCommand struct {
	repoRoot          string
	infraRoot         string
	base              string
	head              string
	environmentFilter string
	format            string
}

// NewDetectChangesCommand creates a new detect-changes command.
func NewDetectChangesCommand(repoRoot, infraRoot, base, head, environmentFilter, format string) *DetectChangesCommand {
	return &DetectChangesCommand{
		repoRoot:          repoRoot,
		infraRoot:         infraRoot,
		base:              base,
		head:              head,
		environmentFilter: environmentFilter,
		format:            format,
	}
}

// Execute runs the detect-changes command. It returns
// errInfrastructureScopeChanged when the infrastructure root's own
// metadata changed, so callers (the cobra RunE wrapper) can map that to
// exit code 2 per §6's CI contract.
func (c *DetectChangesCommand) Execute(ctx context.Context) error {
	w := newWiring()
	detect := usecases.NewDetectChanges(w.changes, w.projects)

	changes, err := detect.Execute(ctx, c.repoRoot, c.infraRoot, c.base, c.head, c.environmentFilter)
	if err != nil {
		if errors.Is(err, usecases.ErrInfrastructureChanged) {
			return errInfrastructureScopeChanged
		}
		return fmt.Errorf("detect-changes: %w", err)
	}

	return w.printFormatted(c.format, changes, func() {
		w.report.PrintChangeReport(changes)
	})
}
