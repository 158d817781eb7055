package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvarga/stackctl/internal/provision"
	"github.com/mvarga/stackctl/internal/runtime"
	"github.com/mvarga/stackctl/internal/util/prerequisites"
)

// writeTestConfig writes a minimal valid stackctl.yaml rooted in a temp
// dir and returns its path.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`stack_name: demo
deploy_root: %s
provisioner:
  location: nbg1
  server_type: cx22
`, dir)
	path := filepath.Join(dir, "stackctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content+extra), 0o640))
	return path
}

type fakeProvisioner struct {
	result    *provision.Result
	err       error
	destroyed bool
}

func (f *fakeProvisioner) Provision(context.Context, provision.Spec) (*provision.Result, error) {
	return f.result, f.err
}

func (f *fakeProvisioner) Destroy(context.Context, provision.Spec) error {
	f.destroyed = true
	return nil
}

type fakeEngine struct {
	restarted []string
	pruned    int
}

func (f *fakeEngine) Ping(context.Context) (string, error) { return "27.3.1", nil }

func (f *fakeEngine) ListContainers(context.Context) ([]runtime.Container, error) {
	return []runtime.Container{{Name: "app", Image: "app:latest", Running: true, Health: runtime.HealthHealthy}}, nil
}

func (f *fakeEngine) Pull(context.Context, string) error { return nil }

func (f *fakeEngine) RestartService(_ context.Context, service string) error {
	f.restarted = append(f.restarted, service)
	return nil
}

func (f *fakeEngine) PruneUnused(context.Context) error {
	f.pruned++
	return nil
}

func (f *fakeEngine) StreamLogs(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

// useFakeEngine swaps the engine factory for the test's lifetime. The
// host tool check is stubbed too; a faked engine implies no real docker.
func useFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()
	engine := &fakeEngine{}
	origEngine := newEngine
	origPrereqs := checkOpsPrereqs
	newEngine = func(string) runtime.Engine { return engine }
	checkOpsPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	t.Cleanup(func() {
		newEngine = origEngine
		checkOpsPrereqs = origPrereqs
	})
	return engine
}
