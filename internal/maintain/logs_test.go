package maintain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent writer and reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStreamUnknownSource(t *testing.T) {
	l := NewLogStreamer(&fakeEngine{}, map[string]string{"app": "app"}, io.Discard)
	err := l.Stream(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app")
}

func TestStreamServiceSource(t *testing.T) {
	engine := &fakeEngine{stream: io.NopCloser(bytes.NewBufferString("line one\nline two\n"))}
	var out bytes.Buffer
	l := NewLogStreamer(engine, map[string]string{"app": "app"}, &out)

	require.NoError(t, l.Stream(context.Background(), "app"))
	assert.Equal(t, "line one\nline two\n", out.String())
}

func TestStreamFileSourceFollowsAppends(t *testing.T) {
	origInterval := followInterval
	followInterval = 10 * time.Millisecond
	t.Cleanup(func() { followInterval = origInterval })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o640))

	out := &syncBuffer{}
	l := NewLogStreamer(&fakeEngine{}, map[string]string{"applog": "file:" + path}, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Stream(ctx, "applog") }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "first")
	}, 2*time.Second, 10*time.Millisecond, "initial content not streamed")

	// Appending after EOF must reach the stream; the source is tailed,
	// not dumped once.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o640)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "second")
	}, 2*time.Second, 10*time.Millisecond, "appended content not streamed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is not a stream error")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}

func TestStreamCancellationReleasesHandle(t *testing.T) {
	pr, pw := io.Pipe()
	engine := &fakeEngine{stream: pr}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewLogStreamer(engine, map[string]string{"app": "app"}, io.Discard).Stream(ctx, "app")
	}()

	_, err := pw.Write([]byte("live output\n"))
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is not a stream error")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
	_ = pw.Close()
}

func TestStreamEngineFailure(t *testing.T) {
	engine := &fakeEngine{streamErr: errors.New("no such service")}
	err := NewLogStreamer(engine, map[string]string{"app": "app"}, io.Discard).Stream(context.Background(), "app")
	assert.Error(t, err)
}
