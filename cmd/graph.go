package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// GraphCommand builds and reports the dependency graph rooted at one
// project environment.
type GraphCommand struct {
	projectRoot string
	project     string
	environment string
	impact      string
	bottlenecks bool
	visualizeTo string
	format      string
}

// NewGraphCommand creates a new graph command.
func NewGraphCommand(projectRoot, project, environment, impact string, bottlenecks bool, visualizeTo, format string) *GraphCommand {
	return &GraphCommand{
		projectRoot: projectRoot,
		project:     project,
		environment: environment,
		impact:      impact,
		bottlenecks: bottlenecks,
		visualizeTo: visualizeTo,
		format:      format,
	}
}

// Execute runs the graph command.
func (c *GraphCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	buildGraph := usecases.NewBuildDependencyGraph(w.projects)
	graph, err := buildGraph.Execute(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	analyze := usecases.NewAnalyzeGraph()

	var bottlenecks []entities.Bottleneck
	if c.bottlenecks {
		bottlenecks = analyze.Bottlenecks(graph)
	}

	if c.impact != "" {
		impactSet := analyze.ImpactSet(graph, c.impact)
		return w.printFormatted(c.format, impactSet, func() {
			fmt.Printf("Impact set for %s (%d nodes):\n", c.impact, len(impactSet))
			for _, id := range impactSet {
				fmt.Printf("  %s\n", id)
			}
		})
	}

	type graphOutput struct {
		Graph       *entities.DependencyGraph `json:"graph"`
		Bottlenecks []entities.Bottleneck     `json:"bottlenecks,omitempty"`
	}
	if err := w.printFormatted(c.format, graphOutput{Graph: graph, Bottlenecks: bottlenecks}, func() {
		w.report.PrintGraphReport(graph, bottlenecks)
	}); err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	if c.visualizeTo != "" {
		if !w.graphs.IsAvailable() {
			return fmt.Errorf("graph: --visualize requires the d2 binary, which was not found in PATH")
		}
		svg, err := w.graphs.RenderSVG(ctx, graph)
		if err != nil {
			return fmt.Errorf("graph: rendering diagram: %w", err)
		}
		if err := os.WriteFile(c.visualizeTo, svg, 0o644); err != nil {
			return fmt.Errorf("graph: writing diagram: %w", err)
		}
		w.progress.ReportSuccess(fmt.Sprintf("diagram written to %s", c.visualizeTo))
	}

	return nil
}
