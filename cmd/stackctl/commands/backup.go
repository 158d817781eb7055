package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Backup returns the command archiving the configured backup targets.
func Backup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the configured backup targets",
		Long: `Create one tar.gz archive per configured backup target under the
backup root, then delete archives older than the retention horizon.
When an S3 destination is configured, each finished archive is also
uploaded offsite.

Archives are written atomically: an interrupted run never leaves an
artifact that looks complete.

Example:
  stackctl backup`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Backup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
