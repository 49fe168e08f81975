package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisk(t *testing.T) Storage {
	t.Helper()
	st, err := NewDisk(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return st
}

func TestNewDiskValidation(t *testing.T) {
	_, err := NewDisk("")
	assert.Error(t, err)
}

func TestEnsureReadyIdempotent(t *testing.T) {
	st := newDisk(t)
	ctx := context.Background()

	require.NoError(t, st.EnsureReady(ctx))
	require.NoError(t, st.EnsureReady(ctx))
}

func TestPutAndRead(t *testing.T) {
	st := newDisk(t)
	ctx := context.Background()

	info, err := st.Put(ctx, strings.NewReader("hello world"), "report.pdf")
	require.NoError(t, err)

	assert.Equal(t, int64(11), info.Size)
	assert.True(t, strings.HasSuffix(info.StoredName, "_report.pdf"))
	assert.Equal(t, info.StoredName, filepath.Base(info.Path))

	content, err := st.Read(ctx, info.StoredName)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestPutGeneratesDistinctNames(t *testing.T) {
	st := newDisk(t)
	ctx := context.Background()

	// Same original name, back to back: every stored name must differ,
	// even when uploads land on the same clock tick.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		info, err := st.Put(ctx, strings.NewReader("x"), "same.txt")
		require.NoError(t, err)
		assert.False(t, seen[info.StoredName], "duplicate stored name %s", info.StoredName)
		seen[info.StoredName] = true
	}
}

func TestPutSanitizesPathComponents(t *testing.T) {
	st := newDisk(t)
	ctx := context.Background()

	info, err := st.Put(ctx, strings.NewReader("data"), "../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.StoredName, "_passwd"))
	assert.NotContains(t, info.StoredName, "..")
}

func TestReadMissing(t *testing.T) {
	st := newDisk(t)
	require.NoError(t, st.EnsureReady(context.Background()))

	_, err := st.Read(context.Background(), "nope.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	st := newDisk(t)
	ctx := context.Background()

	info, err := st.Put(ctx, strings.NewReader("bye"), "tmp.txt")
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, info.StoredName))
	// Deleting again (or deleting something never stored) is not an error
	require.NoError(t, st.Delete(ctx, info.StoredName))
	require.NoError(t, st.Delete(ctx, "never-existed.txt"))

	_, err = st.Read(ctx, info.StoredName)
	assert.ErrorIs(t, err, ErrNotFound)
}
