// Package main is the entry point for the stackctl CLI.
//
// stackctl provisions a single application host on Hetzner Cloud, hands
// the generated credentials to the configuration applier, waits for the
// host to converge, and then serves as the operator console for the
// deployed workload: health checks, reports, updates, backups, cleanup,
// audits, restarts, and log streaming.
//
// For detailed usage information, run:
//
//	stackctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvarga/stackctl/cmd/stackctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Ctrl-C cancels the active command's context; log streaming and the
	// convergence wait rely on this.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
