package handlers

import (
	"context"

	"github.com/mvarga/stackctl/internal/maintain"
	"github.com/mvarga/stackctl/internal/ui"
)

// Restart restarts the named service, or every member of the named group.
func Restart(ctx context.Context, configPath, target string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if results := checkOpsPrereqs(); results.HasErrors() {
		return results.Error()
	}

	return actionRunner.Run("restart:"+target, func() error {
		restarter := maintain.NewRestarter(newEngine(cfg.Services.ComposeProject), cfg.Services.Groups)
		if err := restarter.Restart(ctx, target); err != nil {
			return err
		}
		ui.OK("restarted "+target, "")
		return nil
	})
}
