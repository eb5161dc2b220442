package usecases

import (
	"context"
	"fmt"
	"path/filepath"
)

// infrastructureSentinel is the file whose presence at a directory marks
// it as the infrastructure root (§3).
const infrastructureSentinel = ".pmp.infrastructure.yaml"

// DiscoverCollection implements collection discovery (§4.1 C4): locating
// the enclosing infrastructure root by walking up from a starting
// directory, then enumerating the projects and environments beneath it.
type DiscoverCollection struct {
	fs       FileSystem
	projects ProjectStore
}

// NewDiscoverCollection creates a new DiscoverCollection use case.
func NewDiscoverCollection(fs FileSystem, projects ProjectStore) *DiscoverCollection {
	return &DiscoverCollection{fs: fs, projects: projects}
}

// FindRoot walks upward from startDir looking for a directory containing
// the infrastructure sentinel file. Returns an error if none is found
// before reaching the filesystem root.
func (uc *DiscoverCollection) FindRoot(ctx context.Context, startDir string) (string, error) {
	dir := startDir
	for {
		if uc.fs.Exists(filepath.Join(dir, infrastructureSentinel)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("discover collection: no infrastructure root found above %s", startDir)
		}
		dir = parent
	}
}

// ProjectEnvironments names every (project, environment) pair beneath an
// infrastructure root.
type ProjectEnvironments struct {
	Project      string
	Environments []string
}

// ListProjectsAndEnvironments enumerates every project and its declared
// environments under infraRoot.
func (uc *DiscoverCollection) ListProjectsAndEnvironments(ctx context.Context, infraRoot string) ([]ProjectEnvironments, error) {
	projects, err := uc.projects.ListProjects(ctx, infraRoot)
	if err != nil {
		return nil, fmt.Errorf("discover collection: %w", err)
	}

	out := make([]ProjectEnvironments, 0, len(projects))
	for _, p := range projects {
		envs, err := uc.projects.ListEnvironments(ctx, infraRoot, p.Metadata.Name)
		if err != nil {
			return nil, fmt.Errorf("discover collection: listing environments for %q: %w", p.Metadata.Name, err)
		}
		out = append(out, ProjectEnvironments{Project: p.Metadata.Name, Environments: envs})
	}
	return out, nil
}
