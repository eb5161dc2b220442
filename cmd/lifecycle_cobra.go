package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

var (
	lifecycleProject     string
	lifecycleEnvironment string
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Short:   "Initialize and plan a project environment",
	GroupID: "lifecycle",
	Long: `Run the provisioner's init and plan steps against a project
environment, with its merged infra+environment pre/post hooks, and
recurse into any declared child projects in declaration order.`,
	Example: `  pmp preview --project-name vpc --environment prod`,
	RunE:    runPreview,
}

var applyCmd = &cobra.Command{
	Use:     "apply",
	Short:   "Initialize and apply a project environment",
	GroupID: "lifecycle",
	Long: `Run the provisioner's init and apply steps against a project
environment, with its merged infra+environment pre/post hooks, and
recurse into any declared child projects in declaration order.`,
	Example: `  pmp apply --project-name vpc --environment prod`,
	RunE:    runApply,
}

var destroyCmd = &cobra.Command{
	Use:     "destroy",
	Short:   "Destroy a project environment",
	GroupID: "lifecycle",
	Long: `Run the provisioner's destroy step against a project environment,
with its merged infra+environment pre/post hooks, recursing into any
declared child projects in reverse declaration order.`,
	Example: `  pmp destroy --project-name vpc --environment prod`,
	RunE:    runDestroy,
}

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Short:   "Refresh a project environment's provider-tracked state",
	GroupID: "lifecycle",
	Example: `  pmp refresh --project-name vpc --environment prod`,
	RunE:    runRefresh,
}

func init() {
	for _, c := range []*cobra.Command{previewCmd, applyCmd, destroyCmd, refreshCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&lifecycleProject, "project-name", "", "project name")
		c.Flags().StringVar(&lifecycleEnvironment, "environment", "", "environment name")
		c.MarkFlagRequired("project-name")
		c.MarkFlagRequired("environment")
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	return NewLifecycleCommand(lifecycleProject, lifecycleEnvironment, usecases.LifecyclePreview).Execute(cmd.Context())
}

func runApply(cmd *cobra.Command, args []string) error {
	return NewLifecycleCommand(lifecycleProject, lifecycleEnvironment, usecases.LifecycleApply).Execute(cmd.Context())
}

func runDestroy(cmd *cobra.Command, args []string) error {
	return NewLifecycleCommand(lifecycleProject, lifecycleEnvironment, usecases.LifecycleDestroy).Execute(cmd.Context())
}

func runRefresh(cmd *cobra.Command, args []string) error {
	return NewRefreshCommand(lifecycleProject, lifecycleEnvironment).Execute(cmd.Context())
}
