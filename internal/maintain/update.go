package maintain

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	"github.com/mvarga/stackctl/internal/runtime"
)

// Updater refreshes host packages and pulls newer workload images. Sub-step
// failures do not abort the remaining steps; the action fails at the end if
// any step failed.
type Updater struct {
	Engine runtime.Engine
	// Images is the list of workload images to pull.
	Images []string
	Logf   func(format string, v ...any)

	// run executes a host command, swappable in tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewUpdater returns an Updater that runs package commands on the host.
func NewUpdater(engine runtime.Engine, images []string) *Updater {
	return &Updater{
		Engine: engine,
		Images: images,
		Logf:   log.Printf,
		run: func(ctx context.Context, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
		},
	}
}

// Update runs the package refresh followed by one pull per configured image.
// It returns every step's result and a non-nil error iff any step failed.
func (u *Updater) Update(ctx context.Context) ([]StepResult, error) {
	var steps []StepResult

	u.Logf("refreshing package index")
	if out, err := u.run(ctx, "apt-get", "update", "-q"); err != nil {
		steps = append(steps, StepResult{Name: "package index", Err: fmt.Errorf("apt-get update: %w: %s", err, string(out))})
	} else {
		steps = append(steps, StepResult{Name: "package index"})
	}

	u.Logf("upgrading packages")
	if out, err := u.run(ctx, "apt-get", "upgrade", "-y", "-q"); err != nil {
		steps = append(steps, StepResult{Name: "package upgrade", Err: fmt.Errorf("apt-get upgrade: %w: %s", err, string(out))})
	} else {
		steps = append(steps, StepResult{Name: "package upgrade"})
	}

	for _, image := range u.Images {
		u.Logf("pulling %s", image)
		if err := u.Engine.Pull(ctx, image); err != nil {
			steps = append(steps, StepResult{Name: "pull " + image, Err: err})
			continue
		}
		steps = append(steps, StepResult{Name: "pull " + image})
	}

	failed := 0
	for _, s := range steps {
		if !s.OK() {
			failed++
		}
	}
	if failed > 0 {
		return steps, fmt.Errorf("update finished with %d of %d steps failed", failed, len(steps))
	}
	return steps, nil
}
