// Package entities defines the core domain models for the pmp infrastructure
// orchestrator.
//
// # Thread Safety
//
// DependencyGraph is NOT thread-safe by design. It is intended to be:
//   - Built once per command invocation (via the BuildDependencyGraph use case)
//   - Read concurrently by multiple consumers (graph analysis, change
//     detection, the CLI report formatter)
//   - Never modified after construction
//
// # Node ID Format (Qualified IDs)
//
// To prevent collisions across a multi-project infrastructure, nodes use
// qualified IDs of the form "project:environment", e.g. "vpc:prod" or
// "api-service:staging". The ShortIDMap enables lookups by project name
// alone when that name is unambiguous across environments.
package entities

import "fmt"

// DependencyGraph represents the project/environment dependency topology
// as a directed graph. Nodes are (project, environment) pairs; edges are
// declared dependencies between them.
type DependencyGraph struct {
	// Nodes maps qualified node ID to its node representation.
	Nodes map[string]*DependencyNode

	// Edges maps source node ID to its outgoing edges.
	Edges map[string][]*DependencyEdge

	// IncomingEdges maps target node ID to its incoming edges (reverse
	// adjacency), enabling O(1) GetIncomingEdges/GetDependents.
	IncomingEdges map[string][]*DependencyEdge

	// ShortIDMap maps a bare project name to the qualified IDs of every
	// environment instance of that project.
	ShortIDMap map[string][]string
}

// DependencyNode represents one (project, environment) instance as a node
// in the graph.
type DependencyNode struct {
	// ID is the qualified "project:environment" identifier.
	ID string

	// Project is the owning project's name.
	Project string

	// Environment is the environment name.
	Environment string

	// Executor names the provisioner bound to this environment ("tofu",
	// "terraform", "none").
	Executor string

	// DependencyOnly is true when this node exists solely to satisfy
	// another project's dependency and is never directly executed.
	DependencyOnly bool

	// Data holds the loaded resource document backing this node.
	Data *ProjectEnvironmentResource

	// Metadata for additional properties (labels, tags).
	Metadata map[string]string
}

// DependencyEdge represents a directed dependency between two environment
// instances: Source depends on Target.
type DependencyEdge struct {
	// Source is the dependent node's qualified ID.
	Source string

	// Target is the depended-upon node's qualified ID.
	Target string

	// DependencyName is the declared name of the dependency on Source's
	// side (used to resolve the rendered data-source name).
	DependencyName string

	// Metadata for additional properties.
	Metadata map[string]string
}

// NewDependencyGraph creates a new empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes:         make(map[string]*DependencyNode),
		Edges:         make(map[string][]*DependencyEdge),
		IncomingEdges: make(map[string][]*DependencyEdge),
		ShortIDMap:    make(map[string][]string),
	}
}

// QualifiedNodeID builds the "project:environment" qualified ID for a node.
func QualifiedNodeID(project, environment string) string {
	return project + ":" + environment
}

// ParseQualifiedID splits a qualified ID back into (project, environment).
// The ID is split at its first ':'; ok is false if it contains no ':'.
func ParseQualifiedID(qualifiedID string) (project, environment string, ok bool) {
	for i := 0; i < len(qualifiedID); i++ {
		if qualifiedID[i] == ':' {
			return qualifiedID[:i], qualifiedID[i+1:], true
		}
	}
	return "", "", false
}

// AddNode adds a node to the graph. Returns an error if the node is nil,
// has an empty ID, or a node with the same ID already exists.
func (g *DependencyGraph) AddNode(node *DependencyNode) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("node cannot be nil and must have an ID")
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return &DuplicateError{Entity: "ProjectEnvironment", ID: node.ID}
	}

	g.Nodes[node.ID] = node
	g.ShortIDMap[node.Project] = append(g.ShortIDMap[node.Project], node.ID)
	return nil
}

// GetNode retrieves a node by its qualified ID.
func (g *DependencyGraph) GetNode(id string) *DependencyNode {
	return g.Nodes[id]
}

// ResolveID resolves a bare project name to its qualified ID when the
// project has exactly one environment instance in the graph.
func (g *DependencyGraph) ResolveID(project string) (qualifiedID string, ok bool) {
	ids := g.ShortIDMap[project]
	if len(ids) == 1 {
		return ids[0], true
	}
	return "", false
}

// AddEdge adds a directed dependency edge: source depends on target.
// Duplicate edges (same source, target, and dependency name) are silently
// ignored to support idempotent graph construction.
func (g *DependencyGraph) AddEdge(edge *DependencyEdge) error {
	if edge == nil || edge.Source == "" || edge.Target == "" {
		return fmt.Errorf("edge must have source and target")
	}
	if g.Nodes[edge.Source] == nil {
		return &NotFoundError{Entity: "ProjectEnvironment", ID: edge.Source}
	}
	if g.Nodes[edge.Target] == nil {
		return &NotFoundError{Entity: "ProjectEnvironment", ID: edge.Target}
	}

	for _, existing := range g.Edges[edge.Source] {
		if existing.Target == edge.Target && existing.DependencyName == edge.DependencyName {
			return nil
		}
	}

	g.Edges[edge.Source] = append(g.Edges[edge.Source], edge)
	g.IncomingEdges[edge.Target] = append(g.IncomingEdges[edge.Target], edge)
	return nil
}

// GetOutgoingEdges returns the edges whose source is nodeID.
func (g *DependencyGraph) GetOutgoingEdges(nodeID string) []*DependencyEdge {
	return g.Edges[nodeID]
}

// GetIncomingEdges returns the edges whose target is nodeID.
func (g *DependencyGraph) GetIncomingEdges(nodeID string) []*DependencyEdge {
	return g.IncomingEdges[nodeID]
}

// GetDependencies returns the nodes that nodeID directly depends on.
func (g *DependencyGraph) GetDependencies(nodeID string) []*DependencyNode {
	var deps []*DependencyNode
	for _, edge := range g.GetOutgoingEdges(nodeID) {
		if node := g.Nodes[edge.Target]; node != nil {
			deps = append(deps, node)
		}
	}
	return deps
}

// GetDependents returns the nodes that directly depend on nodeID.
func (g *DependencyGraph) GetDependents(nodeID string) []*DependencyNode {
	var dependents []*DependencyNode
	for _, edge := range g.GetIncomingEdges(nodeID) {
		if node := g.Nodes[edge.Source]; node != nil {
			dependents = append(dependents, node)
		}
	}
	return dependents
}

// GetPath finds a dependency path from source to target using BFS over
// outgoing edges (source -> ... -> target, following "depends on").
func (g *DependencyGraph) GetPath(source, target string) []*DependencyNode {
	if g.Nodes[source] == nil || g.Nodes[target] == nil {
		return nil
	}

	visited := make(map[string]bool)
	queue := [][]*DependencyNode{{g.Nodes[source]}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		current := path[len(path)-1]

		if current.ID == target {
			return path
		}
		if visited[current.ID] {
			continue
		}
		visited[current.ID] = true

		for _, edge := range g.GetOutgoingEdges(current.ID) {
			neighbor := g.Nodes[edge.Target]
			if neighbor != nil && !visited[neighbor.ID] {
				newPath := make([]*DependencyNode, len(path))
				copy(newPath, path)
				newPath = append(newPath, neighbor)
				queue = append(queue, newPath)
			}
		}
	}
	return nil
}

// IsConnected reports whether there's a dependency path from source to
// target.
func (g *DependencyGraph) IsConnected(source, target string) bool {
	return g.GetPath(source, target) != nil
}

// Size returns the number of nodes in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.Nodes)
}

// EdgeCount returns the total number of edges in the graph.
func (g *DependencyGraph) EdgeCount() int {
	count := 0
	for _, edges := range g.Edges {
		count += len(edges)
	}
	return count
}

// nodeColor tracks DFS visitation state for cycle detection.
type nodeColor int

const (
	colorWhite nodeColor = iota
	colorGray
	colorBlack
)

// DetectCycle walks the graph with a three-color DFS and returns a
// *CycleError naming the first cycle found, or nil if the graph is a DAG.
func (g *DependencyGraph) DetectCycle() error {
	colors := make(map[string]nodeColor, len(g.Nodes))
	for id := range g.Nodes {
		colors[id] = colorWhite
	}

	// Sort-free deterministic order isn't required for correctness; any
	// starting node works since every node is eventually visited.
	var ids []string
	for id := range g.Nodes {
		ids = append(ids, id)
	}

	var stack []string
	var visit func(id string) error
	visit = func(id string) error {
		colors[id] = colorGray
		stack = append(stack, id)

		for _, edge := range g.Edges[id] {
			switch colors[edge.Target] {
			case colorGray:
				cycle := append([]string{}, stack...)
				cycle = append(cycle, edge.Target)
				// Trim the cycle to start at the repeated node.
				for i, v := range cycle {
					if v == edge.Target {
						cycle = cycle[i:]
						break
					}
				}
				return &CycleError{Cycle: cycle}
			case colorWhite:
				if err := visit(edge.Target); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = colorBlack
		return nil
	}

	for _, id := range ids {
		if colors[id] == colorWhite {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopologicalSort returns node IDs ordered so that every node appears
// after all the nodes it depends on (dependency-first order), suitable
// for a sequential apply. Returns a *CycleError if the graph has a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if err := g.DetectCycle(); err != nil {
		return nil, err
	}

	visited := make(map[string]bool, len(g.Nodes))
	var order []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, edge := range g.Edges[id] {
			visit(edge.Target)
		}
		order = append(order, id)
	}

	for id := range g.Nodes {
		visit(id)
	}
	return order, nil
}

// LevelGroups partitions nodes into dependency-ordered levels using
// Kahn's algorithm: level 0 contains nodes with no dependencies, level N
// contains nodes whose dependencies are all satisfied by levels < N.
// Nodes within a level have no dependency relationship between them and
// may be processed concurrently. Returns a *CycleError if the graph has a
// cycle.
func (g *DependencyGraph) LevelGroups() ([][]string, error) {
	if err := g.DetectCycle(); err != nil {
		return nil, err
	}

	remaining := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		remaining[id] = len(g.Edges[id])
	}

	var levels [][]string
	processed := 0
	for processed < len(g.Nodes) {
		var level []string
		for id, count := range remaining {
			if count == 0 {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			// Should be unreachable since DetectCycle already passed.
			return nil, &CycleError{Cycle: []string{"unresolved"}}
		}
		for _, id := range level {
			delete(remaining, id)
		}
		for id := range remaining {
			for _, edge := range g.Edges[id] {
				for _, done := range level {
					if edge.Target == done {
						remaining[id]--
					}
				}
			}
		}
		levels = append(levels, level)
		processed += len(level)
	}
	return levels, nil
}

// ImpactSet returns every node whose dependency chain (transitively)
// includes nodeID — the set of nodes affected if nodeID changes.
// Traverses incoming edges (dependents) via BFS.
func (g *DependencyGraph) ImpactSet(nodeID string) []string {
	visited := make(map[string]bool)
	queue := []string{nodeID}
	var impacted []string

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, edge := range g.GetIncomingEdges(id) {
			if !visited[edge.Source] {
				visited[edge.Source] = true
				impacted = append(impacted, edge.Source)
				queue = append(queue, edge.Source)
			}
		}
	}
	return impacted
}

// Bottleneck ranks a node by its direct reverse-dependency count — how
// many other nodes depend on it directly. Higher is more central.
type Bottleneck struct {
	NodeID     string
	ImpactSize int
}

// Bottlenecks ranks every node in the graph by descending direct
// reverse-dependency count (§4.5).
func (g *DependencyGraph) Bottlenecks() []Bottleneck {
	result := make([]Bottleneck, 0, len(g.Nodes))
	for id := range g.Nodes {
		result = append(result, Bottleneck{NodeID: id, ImpactSize: len(g.GetDependents(id))})
	}
	for i := 1; i < len(result); i++ {
		j := i
		for j > 0 && result[j-1].ImpactSize < result[j].ImpactSize {
			result[j-1], result[j] = result[j], result[j-1]
			j--
		}
	}
	return result
}

// Validate checks the structural integrity of the graph: every edge must
// reference nodes present in the graph.
func (g *DependencyGraph) Validate() error {
	for source, edges := range g.Edges {
		if g.Nodes[source] == nil {
			return fmt.Errorf("edge source %q not found in nodes", source)
		}
		for _, edge := range edges {
			if g.Nodes[edge.Target] == nil {
				return fmt.Errorf("edge target %q not found in nodes", edge.Target)
			}
		}
	}
	return nil
}
