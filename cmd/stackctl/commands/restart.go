package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Restart returns the command restarting one service or group.
func Restart() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "restart <service|group>",
		Short: "Restart one service or a configured group",
		Long: `Restart the named compose service, or every member of the named
service group from the configuration. Restarting never cascades past
the resolved members.

Examples:
  # Restart a single service
  stackctl restart app

  # Restart every member of the "web" group
  stackctl restart web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Restart(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
