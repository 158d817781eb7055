package handlers

import (
	"context"

	"github.com/mvarga/stackctl/internal/ui"
)

// Backup archives every configured target and enforces the retention
// horizon. With an S3 destination configured, finished archives are also
// uploaded offsite.
func Backup(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	return actionRunner.Run("backup", func() error {
		ui.Title("Backing up stack: " + cfg.StackName)
		backuper, err := newBackuper(cfg)
		if err != nil {
			return err
		}
		steps, err := backuper.Backup(ctx)
		printSteps(steps)
		return err
	})
}
