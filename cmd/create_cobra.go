package cmd

import "github.com/spf13/cobra"

var (
	createProject     string
	createEnvironment string
	createPack        string
	createTemplate    string
	createUseDefaults bool
)

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Materialise a new project environment from a template",
	GroupID: "scaffolding",
	Long: `Resolve a template's declared inputs (prompting interactively unless
--use-defaults is set), render its file tree, and persist the resulting
project and environment documents.`,
	Example: `  pmp create --project-name vpc --environment prod --pack aws-standard --template vpc
  pmp create --project-name vpc --environment prod --pack aws-standard --template vpc --use-defaults`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createProject, "project-name", "", "project name")
	createCmd.Flags().StringVar(&createEnvironment, "environment", "", "environment name")
	createCmd.Flags().StringVar(&createPack, "pack", "", "template pack name")
	createCmd.Flags().StringVar(&createTemplate, "template", "", "template name within the pack")
	createCmd.Flags().BoolVar(&createUseDefaults, "use-defaults", false, "use every input's declared default without prompting")
	createCmd.MarkFlagRequired("project-name")
	createCmd.MarkFlagRequired("environment")
	createCmd.MarkFlagRequired("pack")
	createCmd.MarkFlagRequired("template")
}

func runCreate(cmd *cobra.Command, args []string) error {
	return NewCreateCommand(createProject, createEnvironment, createPack, createTemplate, createUseDefaults).Execute(cmd.Context())
}
