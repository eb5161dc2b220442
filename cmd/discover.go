package cmd

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/adapters/filesystem"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// DiscoverCommand lists the template packs and project/environment
// instances reachable from the current infrastructure tree.
type DiscoverCommand struct {
	projectRoot string
}

// NewDiscoverCommand creates a new discover command.
func NewDiscoverCommand(projectRoot string) *DiscoverCommand {
	return &DiscoverCommand{projectRoot: projectRoot}
}

// Execute runs the discover command.
func (c *DiscoverCommand) Execute(ctx context.Context) error {
	w := newWiring()
	fs := filesystem.NewOSFileSystem()

	discoverCollection := usecases.NewDiscoverCollection(fs, w.projects)
	root, err := discoverCollection.FindRoot(ctx, c.projectRoot)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	fmt.Printf("Infrastructure root: %s\n", root)

	entries, err := discoverCollection.ListProjectsAndEnvironments(ctx, root)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	if len(entries) == 0 {
		w.progress.ReportInfo("no projects found")
	}
	for _, entry := range entries {
		fmt.Printf("  %s: %v\n", entry.Project, entry.Environments)
	}

	searchPaths := w.templatePackSearchPaths(ctx, root)
	discoverPacks := usecases.NewDiscoverTemplatePacks(w.packs)
	packs, err := discoverPacks.Execute(ctx, searchPaths)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	fmt.Printf("\nTemplate packs (%d):\n", len(packs))
	for _, pack := range packs {
		fmt.Printf("  %s — %s\n", pack.Metadata.Name, pack.Metadata.Description)
	}

	return nil
}
