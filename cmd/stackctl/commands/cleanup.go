package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Cleanup returns the command reclaiming disk space.
func Cleanup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reclaim disk space from unused resources",
		Long: `Prune unused container images and volumes, remove rotated log files
under the deploy root, and delete backup archives older than the
retention horizon.

Only unused resources are touched: anything referenced by an existing
container, any active log file, and any archive inside the retention
horizon survives.

Example:
  stackctl cleanup`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
