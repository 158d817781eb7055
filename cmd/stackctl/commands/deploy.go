package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Deploy returns the command that runs the full handoff pipeline.
//
// The pipeline provisions the host, persists the connection credentials,
// waits for SSH convergence, applies the configured playbook, and ends
// with a post-deploy health round.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect stackctl.yaml)
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision the host and deploy the stack",
		Long: `Run the full provisioning-to-operations pipeline.

Stages run strictly in order:
  1. Provision the application server on Hetzner Cloud
  2. Persist the generated admin credentials and applier inventory
  3. Wait for the host to accept SSH connections
  4. Apply the configured playbook
  5. Probe the configured endpoints

There is no rollback: a failed stage halts the pipeline and leaves the
already-created infrastructure in place. Use 'stackctl destroy' to tear
it down.

Examples:
  # Deploy using stackctl.yaml in the current directory
  stackctl deploy

  # Deploy using a specific config file
  stackctl deploy -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
