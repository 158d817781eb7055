// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the stackctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackctl",
		Short: "Provision and operate a docker-compose stack on Hetzner Cloud",
	}

	// Pipeline commands
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Destroy())

	// Operations commands
	cmd.AddCommand(Health())
	cmd.AddCommand(Report())
	cmd.AddCommand(Update())
	cmd.AddCommand(Backup())
	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Audit())
	cmd.AddCommand(Restart())
	cmd.AddCommand(Logs())

	// Utility commands
	cmd.AddCommand(Interactive())
	cmd.AddCommand(Version())

	return cmd
}
