package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// diskStorage implements Storage on a flat local directory: one file per
// blob, no sub-directories, no size limit.
type diskStorage struct {
	dir string
}

// NewDisk creates a local-disk blob store rooted at dir. The directory is
// created lazily by EnsureReady / Put.
func NewDisk(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	return &diskStorage{dir: filepath.Clean(dir)}, nil
}

var _ Storage = (*diskStorage)(nil)

func (d *diskStorage) EnsureReady(_ context.Context) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	return nil
}

// Put writes the content under <timestamp>_<originalName>. The file is
// created with O_EXCL, so two uploads landing on the same microsecond
// stamp (or a pre-existing file) never share a stored name; collisions
// retry with a numeric discriminator.
func (d *diskStorage) Put(ctx context.Context, r io.Reader, originalName string) (BlobInfo, error) {
	if err := d.EnsureReady(ctx); err != nil {
		return BlobInfo{}, err
	}

	now := time.Now()
	stamp := now.Format("20060102_150405") + fmt.Sprintf("_%06d", now.Nanosecond()/1000)
	base := sanitizeName(originalName)

	var (
		f      *os.File
		stored string
	)
	for i := 0; ; i++ {
		stored = stamp + "_" + base
		if i > 0 {
			stored = stamp + "-" + strconv.Itoa(i) + "_" + base
		}
		var err error
		f, err = os.OpenFile(filepath.Join(d.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return BlobInfo{}, fmt.Errorf("create blob: %w", err)
		}
	}

	path := f.Name()
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return BlobInfo{}, fmt.Errorf("write blob: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return BlobInfo{}, fmt.Errorf("fsync blob: %w", err)
	}
	if err := f.Close(); err != nil {
		return BlobInfo{}, fmt.Errorf("close blob: %w", err)
	}

	return BlobInfo{StoredName: stored, Path: path, Size: n}, nil
}

func (d *diskStorage) Read(_ context.Context, storedName string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(d.dir, filepath.Base(storedName)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return b, nil
}

func (d *diskStorage) Delete(_ context.Context, storedName string) error {
	err := os.Remove(filepath.Join(d.dir, filepath.Base(storedName)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// sanitizeName strips any path components from the uploader-supplied name
// so blobs always land directly inside the storage dir.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "unnamed"
	}
	return name
}
