package commands

import (
	"github.com/spf13/cobra"

	"github.com/mvarga/stackctl/cmd/stackctl/handlers"
)

// Audit returns the command running the read-only security checks.
func Audit() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "audit",
		Aliases: []string{"security-audit"},
		Short:   "Run the security posture checks",
		Long: `Run the read-only security checks against the host:

  - credentials artifact has owner-only permissions
  - credentials directory is not world-readable
  - TLS certificate directory exists and is non-empty
  - sshd rejects password root login
  - no world-writable files under the deploy root

Each check prints a pass/warn/fail line; the command exits non-zero if
any check failed.

Example:
  stackctl audit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Audit(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackctl.yaml)")

	return cmd
}
