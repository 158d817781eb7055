package maintain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mvarga/stackctl/internal/runtime"
)

// filePrefix marks a log source backed by a file instead of a service.
const filePrefix = "file:"

// followInterval is the poll delay after a file source reaches EOF.
var followInterval = 500 * time.Millisecond

// LogStreamer copies a named log source to Out until the context is
// cancelled. Sources resolve to a compose service or, with a "file:"
// prefix, to a file on disk.
type LogStreamer struct {
	Engine  runtime.Engine
	Sources map[string]string
	Out     io.Writer
}

// NewLogStreamer returns a streamer writing to out.
func NewLogStreamer(engine runtime.Engine, sources map[string]string, out io.Writer) *LogStreamer {
	return &LogStreamer{Engine: engine, Sources: sources, Out: out}
}

// Names returns the configured source names, sorted.
func (l *LogStreamer) Names() []string {
	names := make([]string, 0, len(l.Sources))
	for name := range l.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stream resolves name and copies its output to Out. File sources are
// followed past EOF like a tail, so both variants run until ctx is
// cancelled; cancellation stops the stream, releases the underlying
// handle, and is not an error.
func (l *LogStreamer) Stream(ctx context.Context, name string) error {
	source, ok := l.Sources[name]
	if !ok {
		return fmt.Errorf("unknown log source %q (configured: %s)", name, strings.Join(l.Names(), ", "))
	}

	var rc io.ReadCloser
	if path, isFile := strings.CutPrefix(source, filePrefix); isFile {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		rc = &followReader{ctx: ctx, f: f}
	} else {
		stream, err := l.Engine.StreamLogs(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to stream logs for %s: %w", source, err)
		}
		rc = stream
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = rc.Close()
		case <-done:
		}
	}()
	defer func() { _ = rc.Close() }()

	if _, err := io.Copy(l.Out, rc); err != nil && ctx.Err() == nil {
		return fmt.Errorf("log stream for %s ended: %w", name, err)
	}
	return nil
}

// followReader reads a file and, at EOF, waits for more data instead of
// ending, so a file source behaves like a live service stream.
type followReader struct {
	ctx context.Context
	f   *os.File
}

func (r *followReader) Read(p []byte) (int, error) {
	for {
		n, err := r.f.Read(p)
		if n > 0 || !errors.Is(err, io.EOF) {
			return n, err
		}
		select {
		case <-r.ctx.Done():
			return 0, r.ctx.Err()
		case <-time.After(followInterval):
		}
	}
}

func (r *followReader) Close() error { return r.f.Close() }
