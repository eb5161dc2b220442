package cmd

import "github.com/spf13/cobra"

var (
	driftProject     string
	driftEnvironment string
)

var driftCmd = &cobra.Command{
	Use:     "drift",
	Short:   "Detect infrastructure drift for a project environment",
	GroupID: "inspection",
	Long: `Run the provisioner's refresh-then-detailed-plan sequence against a
project environment and report any detected drift.`,
	Example: `  pmp drift --project-name vpc --environment prod`,
	RunE:    runDrift,
}

func init() {
	rootCmd.AddCommand(driftCmd)
	driftCmd.Flags().StringVar(&driftProject, "project-name", "", "project name")
	driftCmd.Flags().StringVar(&driftEnvironment, "environment", "", "environment name")
	driftCmd.MarkFlagRequired("project-name")
	driftCmd.MarkFlagRequired("environment")
}

func runDrift(cmd *cobra.Command, args []string) error {
	return NewDriftCommand(driftProject, driftEnvironment).Execute(cmd.Context())
}
