// Command mockmcp runs dataset-backed mock MCP servers and ships the
// supporting dataset tooling: listing and calling tools, validating and
// generating datasets, and diffing two dataset files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "mockmcp",
		Short:         "Dataset-backed mock MCP servers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newServeCmd(),
		newToolsCmd(),
		newCallCmd(),
		newValidateCmd(),
		newGenerateCmd(),
		newDiffCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
