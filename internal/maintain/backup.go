package maintain

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// partialSuffix marks an archive still being written. A reader must never
// mistake a partial artifact for a finished one.
const partialSuffix = ".partial"

// Target is one named directory tree to archive.
type Target struct {
	Name string
	Path string
}

// Uploader copies finished artifacts to offsite object storage.
type Uploader interface {
	EnsureBucket(ctx context.Context, bucket string) error
	UploadFile(ctx context.Context, bucket, key, path string) error
}

// Backuper archives target trees into the backup root and applies the
// local retention policy. An optional Uploader mirrors completed artifacts
// to an S3-compatible bucket.
type Backuper struct {
	Root          string
	RetentionDays int
	Targets       []Target

	// Uploader and Bucket are both set or both empty.
	Uploader Uploader
	Bucket   string

	Logf func(format string, v ...any)

	timeNow func() time.Time
}

// NewBackuper returns a Backuper for the given root and targets.
func NewBackuper(root string, retentionDays int, targets []Target) *Backuper {
	return &Backuper{
		Root:          root,
		RetentionDays: retentionDays,
		Targets:       targets,
		Logf:          log.Printf,
		timeNow:       time.Now,
	}
}

// Backup archives every target, then runs retention. Each target is one
// step; a failed target does not stop the others.
func (b *Backuper) Backup(ctx context.Context) ([]StepResult, error) {
	if err := os.MkdirAll(b.Root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create backup root: %w", err)
	}

	stamp := b.timeNow().UTC().Format("20060102-150405")
	var steps []StepResult
	for _, target := range b.Targets {
		name := fmt.Sprintf("%s-%s.tar.gz", target.Name, stamp)
		dest := filepath.Join(b.Root, name)

		b.Logf("archiving %s -> %s", target.Path, name)
		if err := b.archive(target, dest); err != nil {
			steps = append(steps, StepResult{Name: "backup " + target.Name, Err: err})
			continue
		}
		steps = append(steps, StepResult{Name: "backup " + target.Name})

		if b.Uploader != nil && b.Bucket != "" {
			b.Logf("uploading %s to s3://%s", name, b.Bucket)
			if err := b.upload(ctx, name, dest); err != nil {
				steps = append(steps, StepResult{Name: "upload " + target.Name, Err: err})
			} else {
				steps = append(steps, StepResult{Name: "upload " + target.Name})
			}
		}
	}

	if removed, err := b.ApplyRetention(); err != nil {
		steps = append(steps, StepResult{Name: "retention", Err: err})
	} else if removed > 0 {
		b.Logf("retention removed %d expired archives", removed)
	}

	failed := 0
	for _, s := range steps {
		if !s.OK() {
			failed++
		}
	}
	if failed > 0 {
		return steps, fmt.Errorf("backup finished with %d of %d steps failed", failed, len(steps))
	}
	return steps, nil
}

// archive writes target's tree as a tar.gz at dest. The archive is built
// under a partial name and renamed only after a successful sync, so an
// interrupted run leaves no artifact that looks complete.
func (b *Backuper) archive(target Target, dest string) (err error) {
	if _, statErr := os.Stat(target.Path); statErr != nil {
		return fmt.Errorf("backup target %s: %w", target.Name, statErr)
	}

	partial := dest + partialSuffix
	f, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(partial)
		}
	}()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(target.Path, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil // skip sockets, devices, symlinks
		}

		rel, rerr := filepath.Rel(target.Path, path)
		if rerr != nil {
			return rerr
		}
		hdr, herr := tar.FileInfoHeader(info, "")
		if herr != nil {
			return herr
		}
		hdr.Name = filepath.ToSlash(filepath.Join(target.Name, rel))

		if werr := tw.WriteHeader(hdr); werr != nil {
			return werr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		src, oerr := os.Open(path) // #nosec G304
		if oerr != nil {
			return oerr
		}
		defer func() { _ = src.Close() }()
		_, cerr := io.Copy(tw, src)
		return cerr
	})
	if walkErr != nil {
		err = fmt.Errorf("failed to archive %s: %w", target.Name, walkErr)
		return err
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("failed to sync archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err = os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func (b *Backuper) upload(ctx context.Context, key, path string) error {
	if err := b.Uploader.EnsureBucket(ctx, b.Bucket); err != nil {
		return err
	}
	return b.Uploader.UploadFile(ctx, b.Bucket, key, path)
}

// ApplyRetention deletes finished archives strictly older than the
// retention horizon and returns how many were removed. Archives exactly at
// the horizon are retained. Partial files are always removed.
func (b *Backuper) ApplyRetention() (int, error) {
	if b.RetentionDays <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan backup root: %w", err)
	}

	horizon := b.timeNow().Add(-time.Duration(b.RetentionDays) * 24 * time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(b.Root, name)
		if strings.HasSuffix(name, partialSuffix) {
			_ = os.Remove(path)
			continue
		}
		if !strings.HasSuffix(name, ".tar.gz") {
			continue
		}
		info, ierr := entry.Info()
		if ierr != nil {
			continue
		}
		if info.ModTime().Before(horizon) {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("failed to remove expired archive %s: %w", name, err)
			}
			removed++
		}
	}
	return removed, nil
}
