package maintain

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mvarga/stackctl/internal/runtime"
)

// rotatedLogPattern matches rotated log files (app.log.1, app.log.2.gz,
// app.log-20260801, ...) but never an active .log file.
var rotatedLogPattern = regexp.MustCompile(`\.log[.-]\d+(\.gz)?$`)

// Cleaner reclaims disk space without touching anything in use: unused
// runtime resources, rotated logs under the deploy root, and expired
// backup archives.
type Cleaner struct {
	Engine     runtime.Engine
	DeployRoot string
	Backups    *Backuper
	// Runner, when set, runs the retention pass under the "backup" slot so
	// it can never overlap a backup writing archives to the same root.
	Runner *Runner
	Logf   func(format string, v ...any)
}

// NewCleaner returns a Cleaner over the given deploy root.
func NewCleaner(engine runtime.Engine, deployRoot string, backups *Backuper) *Cleaner {
	return &Cleaner{Engine: engine, DeployRoot: deployRoot, Backups: backups, Logf: log.Printf}
}

// Cleanup runs all reclamation steps. Steps are independent; the action
// fails at the end iff any step failed.
func (c *Cleaner) Cleanup(ctx context.Context) ([]StepResult, error) {
	var steps []StepResult

	c.Logf("pruning unused runtime resources")
	if err := c.Engine.PruneUnused(ctx); err != nil {
		steps = append(steps, StepResult{Name: "runtime prune", Err: err})
	} else {
		steps = append(steps, StepResult{Name: "runtime prune"})
	}

	removed, err := c.removeRotatedLogs()
	if err != nil {
		steps = append(steps, StepResult{Name: "rotated logs", Err: err})
	} else {
		c.Logf("removed %d rotated log files", removed)
		steps = append(steps, StepResult{Name: "rotated logs"})
	}

	if c.Backups != nil {
		retention := func() error {
			expired, rerr := c.Backups.ApplyRetention()
			if rerr != nil {
				return rerr
			}
			c.Logf("removed %d expired backup archives", expired)
			return nil
		}
		var rerr error
		if c.Runner != nil {
			rerr = c.Runner.Run("backup", retention)
		} else {
			rerr = retention()
		}
		steps = append(steps, StepResult{Name: "backup retention", Err: rerr})
	}

	failed := 0
	for _, s := range steps {
		if !s.OK() {
			failed++
		}
	}
	if failed > 0 {
		return steps, fmt.Errorf("cleanup finished with %d of %d steps failed", failed, len(steps))
	}
	return steps, nil
}

func (c *Cleaner) removeRotatedLogs() (int, error) {
	removed := 0
	err := filepath.WalkDir(c.DeployRoot, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			if os.IsNotExist(werr) {
				return nil
			}
			return werr
		}
		if d.IsDir() || !rotatedLogPattern.MatchString(d.Name()) {
			return nil
		}
		if rerr := os.Remove(path); rerr != nil {
			return rerr
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to remove rotated logs: %w", err)
	}
	return removed, nil
}
