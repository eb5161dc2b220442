package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	detectChangesRepoRoot    string
	detectChangesBase        string
	detectChangesHead        string
	detectChangesEnvironment string
	detectChangesFormat      string
)

var detectChangesCmd = &cobra.Command{
	Use:     "detect-changes",
	Short:   "Report which project environments changed between two VCS references",
	GroupID: "inspection",
	Long: `Diff two VCS references and report the (project, environment) pairs
directly or transitively affected by the changed paths.

Exit codes:
  0   success
  1   internal error
  2   the infrastructure-root document itself changed; project-level
      CI for this ref range should be skipped`,
	Example: `  pmp detect-changes --base main --head HEAD
  pmp detect-changes --base main --head HEAD --environment prod`,
	RunE: runDetectChanges,
}

func init() {
	rootCmd.AddCommand(detectChangesCmd)
	detectChangesCmd.Flags().StringVar(&detectChangesRepoRoot, "repo-root", ".", "root of the VCS checkout")
	detectChangesCmd.Flags().StringVar(&detectChangesBase, "base", "", "base revision")
	detectChangesCmd.Flags().StringVar(&detectChangesHead, "head", "HEAD", "head revision")
	detectChangesCmd.Flags().StringVar(&detectChangesEnvironment, "environment", "", "restrict to a single environment name")
	detectChangesCmd.Flags().StringVar(&detectChangesFormat, "format", "text", "output format: text, json, or toon")
	detectChangesCmd.MarkFlagRequired("base")
}

func runDetectChanges(cmd *cobra.Command, args []string) error {
	root, err := infraRoot()
	if err != nil {
		return err
	}

	err = NewDetectChangesCommand(detectChangesRepoRoot, root, detectChangesBase, detectChangesHead, detectChangesEnvironment, detectChangesFormat).Execute(cmd.Context())
	if err != nil {
		if errors.Is(err, errInfrastructureScopeChanged) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return err
	}

	return nil
}
