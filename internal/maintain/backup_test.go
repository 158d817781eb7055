package maintain

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	buckets []string
	keys    []string
	err     error
}

func (u *recordingUploader) EnsureBucket(_ context.Context, bucket string) error {
	u.buckets = append(u.buckets, bucket)
	return nil
}

func (u *recordingUploader) UploadFile(_ context.Context, _, key, _ string) error {
	u.keys = append(u.keys, key)
	return u.err
}

func testBackuper(t *testing.T) (*Backuper, string) {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "data.db"), []byte("payload"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "notes.txt"), []byte("more"), 0o640))

	root := t.TempDir()
	b := NewBackuper(root, 7, []Target{{Name: "appdata", Path: src}})
	b.Logf = func(string, ...any) {}
	b.timeNow = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	return b, root
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}

func TestBackupProducesFinishedArchive(t *testing.T) {
	b, root := testBackuper(t)

	steps, err := b.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.True(t, steps[0].OK())

	path := filepath.Join(root, "appdata-20260824-120000.tar.gz")
	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "finished archive must exist")

	names := archiveNames(t, path)
	assert.Contains(t, names, "appdata/data.db")
	assert.Contains(t, names, "appdata/sub/notes.txt")

	// No partial artifact may survive a successful run.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), partialSuffix), e.Name())
	}
}

func TestBackupMissingTargetLeavesNoArtifact(t *testing.T) {
	b, root := testBackuper(t)
	b.Targets = []Target{{Name: "ghost", Path: filepath.Join(root, "does-not-exist")}}

	steps, err := b.Backup(context.Background())
	require.Error(t, err)
	require.Len(t, steps, 1)
	assert.False(t, steps[0].OK())

	entries, rerr := os.ReadDir(root)
	require.NoError(t, rerr)
	assert.Empty(t, entries, "a failed backup must leave nothing behind")
}

func TestBackupFailedTargetDoesNotStopOthers(t *testing.T) {
	b, root := testBackuper(t)
	good := b.Targets[0]
	b.Targets = []Target{{Name: "ghost", Path: filepath.Join(root, "missing")}, good}

	steps, err := b.Backup(context.Background())
	require.Error(t, err)
	require.Len(t, steps, 2)
	assert.False(t, steps[0].OK())
	assert.True(t, steps[1].OK())

	_, statErr := os.Stat(filepath.Join(root, "appdata-20260824-120000.tar.gz"))
	assert.NoError(t, statErr)
}

func TestBackupUploadsToBucket(t *testing.T) {
	b, _ := testBackuper(t)
	up := &recordingUploader{}
	b.Uploader = up
	b.Bucket = "stack-backups"

	steps, err := b.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "upload appdata", steps[1].Name)
	assert.Equal(t, []string{"stack-backups"}, up.buckets)
	assert.Equal(t, []string{"appdata-20260824-120000.tar.gz"}, up.keys)
}

func TestRetentionDeletesStrictlyOlderOnly(t *testing.T) {
	b, root := testBackuper(t)
	now := b.timeNow()
	horizon := now.Add(-7 * 24 * time.Hour)

	write := func(name string, mtime time.Time) {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o640))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	write("appdata-old.tar.gz", horizon.Add(-time.Hour))
	write("appdata-at-horizon.tar.gz", horizon)
	write("appdata-fresh.tar.gz", now.Add(-time.Hour))
	write("appdata-stale.tar.gz.partial", horizon.Add(-time.Hour))
	write("unrelated.txt", horizon.Add(-time.Hour))

	removed, err := b.ApplyRetention()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var left []string
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"appdata-at-horizon.tar.gz", "appdata-fresh.tar.gz", "unrelated.txt"}, left)
}

func TestRetentionDisabledWhenNoHorizon(t *testing.T) {
	b, root := testBackuper(t)
	b.RetentionDays = 0
	old := filepath.Join(root, "appdata-old.tar.gz")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o640))
	ancient := time.Now().Add(-365 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, ancient, ancient))

	removed, err := b.ApplyRetention()
	require.NoError(t, err)
	assert.Zero(t, removed)
	_, statErr := os.Stat(old)
	assert.NoError(t, statErr)
}
