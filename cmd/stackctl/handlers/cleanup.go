package handlers

import (
	"context"

	"github.com/mvarga/stackctl/internal/maintain"
	"github.com/mvarga/stackctl/internal/ui"
)

// Cleanup reclaims disk space: unused runtime resources, rotated logs
// under the deploy root, and backup archives past the retention horizon.
func Cleanup(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if results := checkOpsPrereqs(); results.HasErrors() {
		return results.Error()
	}

	return actionRunner.Run("cleanup", func() error {
		ui.Title("Cleaning up stack: " + cfg.StackName)
		backuper, err := newBackuper(cfg)
		if err != nil {
			return err
		}
		cleaner := maintain.NewCleaner(newEngine(cfg.Services.ComposeProject), cfg.DeployRoot, backuper)
		// Retention shares the backup action's slot; it must not run while
		// an archive is being written.
		cleaner.Runner = actionRunner
		steps, err := cleaner.Cleanup(ctx)
		printSteps(steps)
		return err
	})
}
