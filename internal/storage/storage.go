package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains the blob store abstraction for document
// attachments. The service layer exclusively owns the mapping between a
// record and its blob; nothing else creates or deletes blobs.

// ErrNotFound is returned by Read when the blob does not exist (for
// example after external removal). Delete treats a missing blob as a
// no-op instead.
var ErrNotFound = errors.New("blob not found")

// BlobInfo is the stable storage handle linking a record to its content.
type BlobInfo struct {
	// StoredName is the generated unique file name
	// (<uploadTimestamp>_<originalName>).
	StoredName string
	// Path is the full location of the blob.
	Path string
	// Size is the number of bytes actually written.
	Size int64
}

// Storage is the blob store contract.
type Storage interface {
	// EnsureReady creates the storage area if absent. Idempotent; safe to
	// call repeatedly.
	EnsureReady(ctx context.Context) error
	// Put writes the content under a generated unique name and returns
	// the handle. Fails without side effects on the metadata layer.
	Put(ctx context.Context, r io.Reader, originalName string) (BlobInfo, error)
	// Read returns the blob content, or ErrNotFound.
	Read(ctx context.Context, storedName string) ([]byte, error)
	// Delete removes the blob if present. A missing blob is not an error.
	Delete(ctx context.Context, storedName string) error
}
