package graphviz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// generateD2 assembles D2 diagram source from a dependency graph: one
// shape per node, labelled with its executor, and one directed edge per
// declared dependency. Node and edge iteration is sorted for
// deterministic output.
func generateD2(graph *entities.DependencyGraph) string {
	var b strings.Builder

	ids := make([]string, 0, len(graph.Nodes))
	for id := range graph.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := graph.Nodes[id]
		shapeKey := d2Key(id)
		label := fmt.Sprintf("%s\\n(%s)", id, node.Executor)
		if node.DependencyOnly {
			label += "\\ndependency-only"
		}
		fmt.Fprintf(&b, "%s: %q\n", shapeKey, label)
	}

	for _, id := range ids {
		edges := graph.Edges[id]
		sorted := make([]*entities.DependencyEdge, len(edges))
		copy(sorted, edges)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Target < sorted[j].Target })

		for _, edge := range sorted {
			fmt.Fprintf(&b, "%s -> %s: %s\n", d2Key(edge.Source), d2Key(edge.Target), edge.DependencyName)
		}
	}

	return b.String()
}

// d2Key converts a qualified "project:environment" node ID into a D2
// identifier, since D2 shape keys cannot contain a colon.
func d2Key(id string) string {
	return strings.ReplaceAll(id, ":", "__")
}
