package handlers

import (
	"context"
	"fmt"

	"github.com/mvarga/stackctl/internal/maintain"
	"github.com/mvarga/stackctl/internal/ui"
)

// Audit runs the read-only security checks and prints one status line per
// check. Any hard failure makes the command exit non-zero.
func Audit(_ context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ui.Title("Security audit: " + cfg.StackName)
	auditor := maintain.NewAuditor(cfg.CredentialsPath, certDir(cfg), cfg.DeployRoot)
	results := auditor.Audit()

	for _, r := range results {
		switch r.Status {
		case maintain.CheckPass:
			ui.OK(r.Name, r.Detail)
		case maintain.CheckWarn:
			ui.Warn(r.Name, r.Detail)
		case maintain.CheckFail:
			ui.Fail(r.Name, r.Detail)
		}
	}

	if maintain.Failed(results) {
		return fmt.Errorf("security audit failed")
	}
	return nil
}
