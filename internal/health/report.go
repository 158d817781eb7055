package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvarga/stackctl/internal/runtime"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// Reporter composes the three probe families into full reports.
type Reporter struct {
	System    *SystemProber
	Runtime   runtime.Engine
	Endpoints *Engine
	Specs     []EndpointSpec
}

// Full produces the aggregated report: system resources first, then the
// runtime, then the configured endpoints.
func (r *Reporter) Full(ctx context.Context) *Report {
	report := &Report{GeneratedAt: timeNow()}
	report.Verdicts = append(report.Verdicts, r.System.Probe()...)
	report.Verdicts = append(report.Verdicts, ProbeRuntime(ctx, r.Runtime)...)
	report.Verdicts = append(report.Verdicts, r.Endpoints.ProbeAll(ctx, r.Specs)...)
	return report
}

// EndpointsOnly produces a report covering just the configured endpoints.
func (r *Reporter) EndpointsOnly(ctx context.Context) *Report {
	return &Report{
		GeneratedAt: timeNow(),
		Verdicts:    r.Endpoints.ProbeAll(ctx, r.Specs),
	}
}

// Render returns the report as plain text for persistence or piping.
func (r *Report) Render(stackName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "stack: %s\n", stackName)
	fmt.Fprintf(&b, "generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	for _, v := range r.Verdicts {
		mark := "OK  "
		switch v.State {
		case StateDown:
			mark = "DOWN"
		case StateNoCheck:
			mark = "N/A "
		}
		if v.Latency > 0 {
			fmt.Fprintf(&b, "%s %-30s %-10s %s\n", mark, v.Name, v.Latency.Round(time.Millisecond), v.Detail)
		} else {
			fmt.Fprintf(&b, "%s %-30s %s\n", mark, v.Name, v.Detail)
		}
	}
	up, down, noCheck := r.Counts()
	fmt.Fprintf(&b, "\nup=%d down=%d no_check=%d\n", up, down, noCheck)
	return b.String()
}

// Save writes the rendered report under dir with a timestamped name and
// returns the file path.
func (r *Report) Save(dir, stackName string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}
	name := fmt.Sprintf("health-%s.txt", r.GeneratedAt.UTC().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(r.Render(stackName)), 0o640); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
