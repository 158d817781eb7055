package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Report returns the command producing the full aggregated health report.
//
// The report covers system resources (memory, load, disk), the container
// runtime with per-container health, and the configured endpoints. The
// rendered text is persisted under the report directory.
func Report() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Produce and persist a full health report",
		Long: `Produce the aggregated health report: system resources, container
runtime state, and endpoint probes, in that order. The rendered report is
saved under the configured report directory with a timestamped name.

Example:
  stackctl report -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Report(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
