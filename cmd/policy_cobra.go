package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	policyProject          string
	policyEnvironment      string
	policyEntrypointPrefix string
	policyCustomPaths      string
	policyFormat           string
)

var policyCmd = &cobra.Command{
	Use:     "policy",
	Short:   "Evaluate Rego policies against a project environment",
	GroupID: "inspection",
	Long: `Load every *.rego policy reachable along the policy search path and
evaluate its deny/warn/info rule sets against a project environment's
resolved spec document, printing an aggregated compliance report.`,
	Example: `  pmp policy --project-name vpc --environment prod
  pmp policy --project-name vpc --environment prod --entrypoint-prefix pmp.checks`,
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.Flags().StringVar(&policyProject, "project-name", "", "project name")
	policyCmd.Flags().StringVar(&policyEnvironment, "environment", "", "environment name")
	policyCmd.Flags().StringVar(&policyEntrypointPrefix, "entrypoint-prefix", "pmp.checks", "Rego package path prefix")
	policyCmd.Flags().StringVar(&policyCustomPaths, "policy-paths", "", "colon-separated additional policy search paths")
	policyCmd.Flags().StringVar(&policyFormat, "format", "text", "output format: text, json, or toon")
	policyCmd.MarkFlagRequired("project-name")
	policyCmd.MarkFlagRequired("environment")
}

func runPolicy(cmd *cobra.Command, args []string) error {
	var custom []string
	if policyCustomPaths != "" {
		custom = strings.Split(policyCustomPaths, ":")
	}
	return NewPolicyCommand(policyProject, policyEnvironment, policyEntrypointPrefix, custom, policyFormat).Execute(cmd.Context())
}
