package cmd

import "github.com/spf13/cobra"

var (
	updateProject     string
	updateEnvironment string
	updatePack        string
	updateTemplate    string
	updateUseDefaults bool
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Re-render an existing project environment against its template",
	GroupID: "scaffolding",
	Example: `  pmp update --project-name vpc --environment prod --pack aws-standard --template vpc`,
	RunE:    runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateProject, "project-name", "", "project name")
	updateCmd.Flags().StringVar(&updateEnvironment, "environment", "", "environment name")
	updateCmd.Flags().StringVar(&updatePack, "pack", "", "template pack name")
	updateCmd.Flags().StringVar(&updateTemplate, "template", "", "template name within the pack")
	updateCmd.Flags().BoolVar(&updateUseDefaults, "use-defaults", false, "use current/declared defaults without prompting")
	updateCmd.MarkFlagRequired("project-name")
	updateCmd.MarkFlagRequired("environment")
	updateCmd.MarkFlagRequired("pack")
	updateCmd.MarkFlagRequired("template")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	return NewUpdateCommand(updateProject, updateEnvironment, updatePack, updateTemplate, updateUseDefaults).Execute(cmd.Context())
}
