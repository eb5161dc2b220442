package cmd

import "github.com/spf13/cobra"

var (
	graphProject     string
	graphEnvironment string
	graphImpact      string
	graphBottlenecks bool
	graphVisualize   string
	graphFormat      string
)

var graphCmd = &cobra.Command{
	Use:     "graph",
	Short:   "Build and inspect the project dependency graph",
	GroupID: "inspection",
	Long: `Build the dependency graph rooted at a project environment and
report its topological execution order, impact sets, and bottlenecks.

Flags:
  --impact NODE       print the impact set of the given "project:environment" node
  --bottlenecks       list the ten nodes with the most direct dependents
  --visualize FILE     render an SVG diagram to FILE via the d2 binary`,
	Example: `  pmp graph --project-name vpc --environment prod
  pmp graph --project-name vpc --environment prod --bottlenecks
  pmp graph --project-name vpc --environment prod --visualize graph.svg`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphProject, "project-name", "", "root project name")
	graphCmd.Flags().StringVar(&graphEnvironment, "environment", "", "root environment name")
	graphCmd.Flags().StringVar(&graphImpact, "impact", "", "print the impact set of a \"project:environment\" node")
	graphCmd.Flags().BoolVar(&graphBottlenecks, "bottlenecks", false, "list the ten nodes with the most direct dependents")
	graphCmd.Flags().StringVar(&graphVisualize, "visualize", "", "render an SVG diagram to this file")
	graphCmd.Flags().StringVar(&graphFormat, "format", "text", "output format: text, json, or toon")
}

func runGraph(cmd *cobra.Command, args []string) error {
	return NewGraphCommand(ProjectRoot, graphProject, graphEnvironment, graphImpact, graphBottlenecks, graphVisualize, graphFormat).Execute(cmd.Context())
}
