package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// BuildDependencyGraph constructs a DependencyGraph from an infrastructure
// root by BFS-walking declared environment dependencies, starting from a
// single root (project, environment) pair (§4.4 C7).
type BuildDependencyGraph struct {
	store ProjectStore
}

// NewBuildDependencyGraph creates a new BuildDependencyGraph use case.
func NewBuildDependencyGraph(store ProjectStore) *BuildDependencyGraph {
	return &BuildDependencyGraph{store: store}
}

// Execute builds the dependency graph reachable from (rootProject,
// rootEnvironment) under infraRoot.
//
// Each node is loaded exactly once (duplicate handling via a visited
// set). Missing environment files, unresolved projects, and unresolved
// environments are fatal unless the declaring dependency has create:true,
// in which case they are silently dropped rather than enqueued.
func (uc *BuildDependencyGraph) Execute(ctx context.Context, infraRoot, rootProject, rootEnvironment string) (*entities.DependencyGraph, error) {
	if rootProject == "" || rootEnvironment == "" {
		return nil, fmt.Errorf("root project and environment are required")
	}

	graph := entities.NewDependencyGraph()
	visited := make(map[string]bool)

	type workItem struct {
		project     string
		environment string
	}
	queue := []workItem{{project: rootProject, environment: rootEnvironment}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		qid := entities.QualifiedNodeID(item.project, item.environment)
		if visited[qid] {
			continue
		}
		visited[qid] = true

		env, err := uc.store.LoadEnvironment(ctx, infraRoot, item.project, item.environment)
		if err != nil {
			return nil, fmt.Errorf("build dependency graph: %w", err)
		}

		node := &entities.DependencyNode{
			ID:             qid,
			Project:        item.project,
			Environment:    item.environment,
			Executor:       env.Spec.Executor.Name,
			DependencyOnly: env.IsDependencyOnly(),
			Data:           env,
		}
		if err := graph.AddNode(node); err != nil {
			return nil, fmt.Errorf("build dependency graph: %w", err)
		}

		for _, dep := range env.Spec.Dependencies {
			for _, depEnv := range dep.Environments {
				depQID := entities.QualifiedNodeID(dep.ProjectName, depEnv)

				_, projectExists, err := uc.store.FindProjectDir(ctx, infraRoot, dep.ProjectName)
				if err != nil {
					return nil, fmt.Errorf("build dependency graph: %w", err)
				}
				if !projectExists {
					if dep.Create {
						continue
					}
					return nil, &entities.NotFoundError{Entity: "Project", ID: dep.ProjectName, Parent: infraRoot}
				}

				if _, err := uc.store.LoadEnvironment(ctx, infraRoot, dep.ProjectName, depEnv); err != nil {
					var notFound *entities.NotFoundError
					if dep.Create && errors.As(err, &notFound) {
						continue
					}
					return nil, fmt.Errorf("build dependency graph: resolving dependency %q: %w", dep.DependencyName, err)
				}

				if !visited[depQID] {
					queue = append(queue, workItem{project: dep.ProjectName, environment: depEnv})
				}
			}
		}
	}

	// Second pass: now that every reachable node is loaded, record edges
	// (deferred until all targets exist so AddEdge's existence check
	// always succeeds regardless of traversal order).
	for qid, node := range graph.Nodes {
		for _, dep := range node.Data.Spec.Dependencies {
			for _, depEnv := range dep.Environments {
				depQID := entities.QualifiedNodeID(dep.ProjectName, depEnv)
				if graph.Nodes[depQID] == nil {
					continue // dropped via create:true
				}
				edge := &entities.DependencyEdge{
					Source:         qid,
					Target:         depQID,
					DependencyName: dep.DependencyName,
				}
				if err := graph.AddEdge(edge); err != nil {
					return nil, fmt.Errorf("build dependency graph: %w", err)
				}
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("build dependency graph: graph validation failed: %w", err)
	}

	return graph, nil
}
