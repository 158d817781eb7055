package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Health returns the command for probing the configured endpoints.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect stackctl.yaml)
//	--watch, -w: Re-probe every 5 seconds
//	--json: Output in JSON format
func Health() *cobra.Command {
	var configPath string
	var watch bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the configured endpoints",
		Long: `Probe every configured endpoint once and print one status line per
endpoint. The command exits non-zero when any endpoint is down.

Examples:
  # One probe round
  stackctl health

  # Keep probing every 5 seconds
  stackctl health --watch

  # Machine-readable output
  stackctl health --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Health(cmd.Context(), configPath, watch, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Continuously re-probe")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
