package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Interactive returns the command running the operator console loop.
func Interactive() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run the interactive operator console",
		Long: `Present the maintenance action set as a menu and loop until quit.
Each selected action runs exactly as its non-interactive command would.

Example:
  stackctl interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Interactive(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
