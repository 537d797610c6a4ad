package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aetherflow",
	Short: "Multi-agent task orchestration",
	Long: `AetherFlow decomposes free-text goals into dependency-ordered task
graphs, routes each task to a specialized agent, synthesizes new agents
when no existing one fits, and threads shared memory and file artifacts
between tasks.

With no arguments, launches an interactive session where you can type
tasks, create workflows, and give feedback on their results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(versionCmd)
}
