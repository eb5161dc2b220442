package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// ErrInfrastructureChanged is returned by DetectChanges when the
// infrastructure-scope document itself changed between base and head —
// callers should map this to exit status 2 (§4.6 step 2).
var ErrInfrastructureChanged = fmt.Errorf("infrastructure-scope file changed; project-level CI should be skipped")

// DetectChanges implements the change detector (§4.6 C9): given two
// commit-like references, determines which (project, environment) pairs
// are directly changed or transitively affected.
type DetectChanges struct {
	source ChangeSource
	store  ProjectStore
	graphs *BuildDependencyGraph
}

// NewDetectChanges creates a new DetectChanges use case.
func NewDetectChanges(source ChangeSource, store ProjectStore) *DetectChanges {
	return &DetectChanges{source: source, store: store, graphs: NewBuildDependencyGraph(store)}
}

// Execute returns the change records for base..head, optionally filtered
// to a single environment name. Returns ErrInfrastructureChanged if the
// infrastructure document itself changed.
func (uc *DetectChanges) Execute(ctx context.Context, repoRoot, infraRoot, base, head, environmentFilter string) ([]entities.ChangeRecord, error) {
	paths, err := uc.source.ChangedPaths(ctx, repoRoot, base, head)
	if err != nil {
		return nil, fmt.Errorf("detect changes: %w", err)
	}

	for _, p := range paths {
		if strings.HasSuffix(p, ".pmp.infrastructure.yaml") {
			return nil, ErrInfrastructureChanged
		}
	}

	type pe struct{ project, environment string }
	changedDirect := make(map[pe]string) // -> representative path

	for _, p := range paths {
		project, environment, ok := parseProjectEnvironmentPath(p)
		if !ok {
			continue
		}
		if environmentFilter != "" && environment != environmentFilter {
			continue
		}
		key := pe{project, environment}
		if _, exists := changedDirect[key]; !exists {
			changedDirect[key] = p
		}
	}

	var records []entities.ChangeRecord
	seen := make(map[pe]bool)

	for key, path := range changedDirect {
		records = append(records, entities.ChangeRecord{Project: key.project, Environment: key.environment, Path: path, Transitive: false})
		seen[key] = true
	}

	// Transitive: every other known (project, environment) whose
	// dependency graph's execution order includes a directly-changed node.
	projects, err := uc.store.ListProjects(ctx, infraRoot)
	if err != nil {
		return nil, fmt.Errorf("detect changes: %w", err)
	}

	changedQIDs := make(map[string]bool, len(changedDirect))
	for key := range changedDirect {
		changedQIDs[entities.QualifiedNodeID(key.project, key.environment)] = true
	}

	for _, proj := range projects {
		envDirs, err := uc.store.ListEnvironments(ctx, infraRoot, proj.Metadata.Name)
		if err != nil {
			continue
		}
		for _, env := range envDirs {
			if environmentFilter != "" && env != environmentFilter {
				continue
			}
			key := pe{proj.Metadata.Name, env}
			if seen[key] {
				continue
			}

			graph, err := uc.graphs.Execute(ctx, infraRoot, proj.Metadata.Name, env)
			if err != nil {
				continue
			}
			order, err := graph.TopologicalSort()
			if err != nil {
				continue
			}
			for _, id := range order {
				if changedQIDs[id] {
					records = append(records, entities.ChangeRecord{Project: key.project, Environment: key.environment, Transitive: true})
					seen[key] = true
					break
				}
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Project != records[j].Project {
			return records[i].Project < records[j].Project
		}
		return records[i].Environment < records[j].Environment
	})

	return records, nil
}

// parseProjectEnvironmentPath extracts (project, environment) from a path
// of the form "projects/<name>/environments/<env>/...".
func parseProjectEnvironmentPath(path string) (project, environment string, ok bool) {
	parts := strings.Split(path, "/")
	for i := 0; i+3 < len(parts); i++ {
		if parts[i] == "projects" && parts[i+2] == "environments" {
			return parts[i+1], parts[i+3], true
		}
	}
	return "", "", false
}
