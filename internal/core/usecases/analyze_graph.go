package usecases

import "github.com/pmp-io/pmp/internal/core/entities"

// AnalyzeGraph provides the graph analysis operations of §4.5 (C8):
// topological ordering, level-grouped parallel scheduling, impact-set
// computation, and bottleneck ranking.
type AnalyzeGraph struct{}

// NewAnalyzeGraph creates a new AnalyzeGraph use case.
func NewAnalyzeGraph() *AnalyzeGraph {
	return &AnalyzeGraph{}
}

// TopologicalOrder returns node IDs dependency-first: every node appears
// after everything it depends on. Returns *entities.CycleError if a cycle
// exists.
func (uc *AnalyzeGraph) TopologicalOrder(graph *entities.DependencyGraph) ([]string, error) {
	return graph.TopologicalSort()
}

// LevelSchedule groups nodes into dependency-ordered levels suitable for
// CI parallelism: nodes within a level share no dependency relationship
// and may run concurrently. Returns *entities.CycleError if a cycle
// exists.
func (uc *AnalyzeGraph) LevelSchedule(graph *entities.DependencyGraph) ([][]string, error) {
	return graph.LevelGroups()
}

// ImpactSet returns every node transitively affected by a change to
// nodeID, excluding nodeID itself.
func (uc *AnalyzeGraph) ImpactSet(graph *entities.DependencyGraph, nodeID string) []string {
	return graph.ImpactSet(nodeID)
}

// Bottlenecks ranks nodes by descending direct reverse-dependency count
// and returns the top ten.
func (uc *AnalyzeGraph) Bottlenecks(graph *entities.DependencyGraph) []entities.Bottleneck {
	ranked := graph.Bottlenecks()
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return ranked
}
