package maintain

import (
	"context"
	"io"

	"github.com/mvarga/stackctl/internal/runtime"
)

// fakeEngine records calls and returns scripted failures.
type fakeEngine struct {
	pulled     []string
	pullErr    map[string]error
	restarted  []string
	restartErr map[string]error
	pruneCalls int
	pruneErr   error
	stream     io.ReadCloser
	streamErr  error
}

func (f *fakeEngine) Ping(context.Context) (string, error) { return "27.3.1", nil }

func (f *fakeEngine) ListContainers(context.Context) ([]runtime.Container, error) {
	return nil, nil
}

func (f *fakeEngine) Pull(_ context.Context, image string) error {
	f.pulled = append(f.pulled, image)
	return f.pullErr[image]
}

func (f *fakeEngine) RestartService(_ context.Context, service string) error {
	f.restarted = append(f.restarted, service)
	return f.restartErr[service]
}

func (f *fakeEngine) PruneUnused(context.Context) error {
	f.pruneCalls++
	return f.pruneErr
}

func (f *fakeEngine) StreamLogs(context.Context, string) (io.ReadCloser, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return f.stream, nil
}
