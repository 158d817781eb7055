package handlers

import (
	"context"
	"fmt"

	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/health"
	"github.com/mvarga/stackctl/internal/ui"
)

// Report produces the full aggregated health report: system resources,
// container runtime, and endpoints, in that order. The rendered text is
// persisted under the report directory with a timestamped name.
func Report(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	timeouts := config.LoadTimeouts()

	reporter := &health.Reporter{
		System:    health.NewSystemProber(cfg.DeployRoot),
		Runtime:   newEngine(cfg.Services.ComposeProject),
		Endpoints: health.NewEngine(timeouts.Probe),
		Specs:     endpointSpecs(cfg),
	}

	report := reporter.Full(ctx)

	ui.Title("Health report: " + cfg.StackName)
	printVerdicts(report.Verdicts)

	path, err := report.Save(cfg.ReportDir, cfg.StackName)
	if err != nil {
		return err
	}
	ui.Dim("saved to " + path)

	if report.Failing() {
		_, down, _ := report.Counts()
		return fmt.Errorf("%d of %d checks down", down, len(report.Verdicts))
	}
	return nil
}
