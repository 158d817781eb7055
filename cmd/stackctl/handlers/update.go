package handlers

import (
	"context"

	"github.com/mvarga/stackctl/internal/maintain"
	"github.com/mvarga/stackctl/internal/runtime"
	"github.com/mvarga/stackctl/internal/ui"
)

// newUpdater creates the updater (for testing injection).
var newUpdater = func(engine runtime.Engine, images []string) *maintain.Updater {
	return maintain.NewUpdater(engine, images)
}

// Update refreshes host packages and pulls newer workload images. Failed
// sub-steps are reported but do not stop their siblings.
func Update(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if results := checkOpsPrereqs(); results.HasErrors() {
		return results.Error()
	}

	return actionRunner.Run("update", func() error {
		ui.Title("Updating stack: " + cfg.StackName)
		updater := newUpdater(newEngine(cfg.Services.ComposeProject), cfg.Services.Images)
		steps, err := updater.Update(ctx)
		printSteps(steps)
		return err
	})
}
