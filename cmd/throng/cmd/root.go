// Package cmd provides the command-line interface for Throng.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "throng",
	Short: "Throng runs populations of scheduled agents.",
	Long: `Throng runs populations of agents that each commit to one timed ` +
		`activity at a time. Currently, it ships the caravan demo world.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
