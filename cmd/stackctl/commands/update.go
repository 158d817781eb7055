package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Update returns the command refreshing host packages and workload images.
func Update() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh host packages and pull newer images",
		Long: `Refresh the host package index, upgrade installed packages, and pull
a newer version of every configured workload image.

A failed sub-step does not stop its siblings; the command exits non-zero
if any sub-step failed.

Example:
  stackctl update`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Update(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
