package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Logs returns the command streaming one configured log source.
func Logs() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "logs <source>",
		Short: "Stream a configured log source",
		Long: `Stream the named log source to the console until interrupted.
Sources are configured under log_sources and map to a compose service
or, with a "file:" prefix, to a file on disk.

Example:
  stackctl logs app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Logs(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
