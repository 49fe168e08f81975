package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docregistry/internal/model"
	"docregistry/internal/repository/jsonfile"
	"docregistry/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the service against the real snapshot store and disk
// storage in a temp dir, covering end-to-end behavior the mock-based
// tests cannot: durability, identity uniqueness and tolerance of
// externally mangled state.

func newRealService(t *testing.T) (DocumentService, string, string) {
	t.Helper()
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "documents_meta.json")
	uploadDir := filepath.Join(dir, "uploads")

	repo, err := jsonfile.NewDocumentJSONFile(dataFile, 0o644)
	require.NoError(t, err)
	blobs, err := storage.NewDisk(uploadDir)
	require.NoError(t, err)

	return NewDocumentService(blobs, repo), dataFile, uploadDir
}

func upload(t *testing.T, svc DocumentService, name, content string) *model.Document {
	t.Helper()
	doc, err := svc.Upload(context.Background(), strings.NewReader(content), UploadInput{
		OriginalFileName: name,
		Category:         model.CategoryIncoming,
	})
	require.NoError(t, err)
	return doc
}

func TestUploadPersistsAcrossReopen(t *testing.T) {
	svc, dataFile, uploadDir := newRealService(t)
	ctx := context.Background()

	doc := upload(t, svc, "letter.pdf", "dear sir")

	// A fresh service over the same files sees the record: nothing lives
	// only in memory after a successful add.
	repo, err := jsonfile.NewDocumentJSONFile(dataFile, 0o644)
	require.NoError(t, err)
	blobs, err := storage.NewDisk(uploadDir)
	require.NoError(t, err)
	reopened := NewDocumentService(blobs, repo)

	docs, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	content, _, err := reopened.Download(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "dear sir", string(content))
}

func TestUploadIdentityUniqueness(t *testing.T) {
	svc, _, _ := newRealService(t)

	// Identical original names, back to back: ids must be pairwise
	// distinct even on same-tick timestamps.
	seen := map[string]bool{}
	for i := 0; i < 30; i++ {
		doc := upload(t, svc, "same_name.txt", "v")
		assert.False(t, seen[doc.ID], "duplicate id %s", doc.ID)
		seen[doc.ID] = true
	}

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 30)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _, _ := newRealService(t)
	ctx := context.Background()

	doc := upload(t, svc, "temp.txt", "x")

	require.NoError(t, svc.Delete(ctx, doc.ID))
	// Second delete has the same observable effect and does not error
	require.NoError(t, svc.Delete(ctx, doc.ID))

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = os.Stat(doc.StoragePath)
	assert.True(t, os.IsNotExist(err), "blob removed from disk")
}

func TestDeleteSurvivesMissingBlob(t *testing.T) {
	svc, _, _ := newRealService(t)
	ctx := context.Background()

	doc := upload(t, svc, "gone.txt", "x")
	// External removal of the blob must not block metadata cleanup
	require.NoError(t, os.Remove(doc.StoragePath))

	require.NoError(t, svc.Delete(ctx, doc.ID))

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMissingBlobDegradesOnlyThatRead(t *testing.T) {
	svc, _, _ := newRealService(t)
	ctx := context.Background()

	ok := upload(t, svc, "ok.txt", "fine")
	broken := upload(t, svc, "broken.txt", "was here")
	require.NoError(t, os.Remove(broken.StoragePath))

	// The collection read still returns both records
	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Only the download of the mangled record fails
	_, _, err = svc.Download(ctx, broken.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	content, _, err := svc.Download(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, "fine", string(content))
}

func TestCorruptSnapshotBehavesAsEmpty(t *testing.T) {
	svc, dataFile, _ := newRealService(t)
	ctx := context.Background()

	upload(t, svc, "old.txt", "x")
	require.NoError(t, os.WriteFile(dataFile, []byte("###"), 0o644))

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "corruption yields a fresh collection, not an error")

	// And the collection is usable again
	doc := upload(t, svc, "new.txt", "y")
	docs, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)
}

func TestConcurrentUploadsLoseNoRecords(t *testing.T) {
	svc, _, _ := newRealService(t)
	ctx := context.Background()

	const n = 16
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Upload(ctx, strings.NewReader("p"), UploadInput{
				OriginalFileName: "race.txt",
				Category:         model.CategoryOutgoing,
			})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, n, "the write lock prevents lost updates")
}
