package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/health"
	"github.com/mvarga/stackctl/internal/ui"
)

// watchInterval is the delay between probe rounds in --watch mode.
const watchInterval = 5 * time.Second

// healthJSON is the machine-readable report shape.
type healthJSON struct {
	Stack       string        `json:"stack"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Verdicts    []verdictJSON `json:"verdicts"`
	Failing     bool          `json:"failing"`
}

type verdictJSON struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	LatencyMS int64  `json:"latencyMs"`
	Detail    string `json:"detail,omitempty"`
}

// Health probes the configured endpoints once, or every 5 seconds with
// watch. It returns an error when any endpoint is Down, so the command
// exits non-zero; NoCheckConfigured never fails a run.
func Health(ctx context.Context, configPath string, watch, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	timeouts := config.LoadTimeouts()
	reporter := &health.Reporter{
		Endpoints: health.NewEngine(timeouts.Probe),
		Specs:     endpointSpecs(cfg),
	}

	if watch {
		return watchHealth(ctx, cfg, reporter, jsonOutput)
	}
	return probeOnce(ctx, cfg, reporter, jsonOutput)
}

func probeOnce(ctx context.Context, cfg *config.Config, reporter *health.Reporter, jsonOutput bool) error {
	report := reporter.EndpointsOnly(ctx)

	if jsonOutput {
		if err := printHealthJSON(cfg.StackName, report); err != nil {
			return err
		}
	} else {
		ui.Title("Endpoint health: " + cfg.StackName)
		printVerdicts(report.Verdicts)
	}

	if report.Failing() {
		_, down, _ := report.Counts()
		return fmt.Errorf("%d of %d endpoints down", down, len(report.Verdicts))
	}
	return nil
}

func watchHealth(ctx context.Context, cfg *config.Config, reporter *health.Reporter, jsonOutput bool) error {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	// Probe immediately, then on every tick. A failing round does not end
	// the watch; only cancellation does.
	if err := probeOnce(ctx, cfg, reporter, jsonOutput); err != nil {
		ui.Dim(err.Error())
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !jsonOutput {
				fmt.Print("\033[H\033[2J")
			}
			if err := probeOnce(ctx, cfg, reporter, jsonOutput); err != nil {
				ui.Dim(err.Error())
			}
		}
	}
}

func printHealthJSON(stack string, report *health.Report) error {
	out := healthJSON{
		Stack:       stack,
		GeneratedAt: report.GeneratedAt,
		Failing:     report.Failing(),
	}
	for _, v := range report.Verdicts {
		out.Verdicts = append(out.Verdicts, verdictJSON{
			Name:      v.Name,
			State:     string(v.State),
			LatencyMS: v.Latency.Milliseconds(),
			Detail:    v.Detail,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
