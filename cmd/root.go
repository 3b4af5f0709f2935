// Package cmd wires the command line interface for the concierge service.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Gift concierge orchestration service",
	Long: `Concierge runs the request orchestration layer for the gift
assistant: per-caller rate limiting, conversation window management,
catalog search with caching, and the tool-calling reasoning loop.

Run "concierge serve" to start the HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
