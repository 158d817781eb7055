package maintain

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mvarga/stackctl/internal/runtime"
)

// Restarter restarts one service or a configured group of services.
// Restarting never cascades past the resolved members.
type Restarter struct {
	Engine runtime.Engine
	// Groups maps a group name to its member services.
	Groups map[string][]string
	Logf   func(format string, v ...any)
}

// NewRestarter returns a Restarter over the given groups.
func NewRestarter(engine runtime.Engine, groups map[string][]string) *Restarter {
	return &Restarter{Engine: engine, Groups: groups, Logf: log.Printf}
}

// Resolve expands target into the services to restart: a group's members
// when target names a group, otherwise target itself.
func (r *Restarter) Resolve(target string) []string {
	if members, ok := r.Groups[target]; ok {
		return members
	}
	return []string{target}
}

// Restart restarts every resolved member. All members are attempted even
// when one fails.
func (r *Restarter) Restart(ctx context.Context, target string) error {
	members := r.Resolve(target)
	var failed []string
	for _, svc := range members {
		r.Logf("restarting %s", svc)
		if err := r.Engine.RestartService(ctx, svc); err != nil {
			r.Logf("restart of %s failed: %v", svc, err)
			failed = append(failed, svc)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to restart %d of %d services: %s", len(failed), len(members), strings.Join(failed, ", "))
	}
	return nil
}
