package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Destroy returns the destroy command.
//
// Destroy deletes the provisioned server and its uploaded SSH key from
// Hetzner Cloud. It is the only operation that removes infrastructure;
// a failed deploy never triggers it implicitly.
func Destroy() *cobra.Command {
	var configPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the provisioned server",
		Long: `Destroy deletes the application server and its SSH key from Hetzner
Cloud. The credentials artifact on disk is left in place.

The command asks for confirmation unless --yes is given.

Example:
  stackctl destroy -c production.yaml

WARNING: This operation is irreversible. All data on the server is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
