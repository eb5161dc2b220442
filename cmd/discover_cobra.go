package cmd

import "github.com/spf13/cobra"

var discoverCmd = &cobra.Command{
	Use:     "discover",
	Short:   "List template packs and projects reachable from this infrastructure",
	GroupID: "scaffolding",
	Example: `  pmp discover
  pmp discover --project ./infra`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	return NewDiscoverCommand(ProjectRoot).Execute(cmd.Context())
}
