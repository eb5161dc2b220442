// Command pmp is the entry point for the project-management-plane CLI.
package main

import (
	"fmt"
	"os"

	"github.com/pmp-io/pmp/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
