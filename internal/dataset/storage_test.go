package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"churnboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *WorkbookStore {
	t.Helper()
	store, err := NewWorkbookStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStoreAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.Store(ctx, strings.NewReader("workbook-bytes"), "b.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(len("workbook-bytes")), n)

	_, err = store.Store(ctx, strings.NewReader("x"), "a.xlsx")
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, names, "listing is lexical")
}

func TestStoreOverwritesSameName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Store(ctx, strings.NewReader("first"), "data.xlsx")
	require.NoError(t, err)
	n, err := store.Store(ctx, strings.NewReader("second version"), "data.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(len("second version")), n)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"data.xlsx"}, names)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("connection reset")
}

func TestStoreFailedCopyLeavesNothingBehind(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Store(context.Background(), failingReader{}, "torn.xlsx")
	require.Error(t, err)
	assert.False(t, store.Exists("torn.xlsx"), "partial write must be removed")
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Store(ctx, strings.NewReader("x"), "gone.xlsx")
	require.NoError(t, err)
	require.True(t, store.Exists("gone.xlsx"))

	require.NoError(t, store.Delete(ctx, "gone.xlsx"))
	assert.False(t, store.Exists("gone.xlsx"))

	err = store.Delete(ctx, "gone.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestPathFlattensTraversal(t *testing.T) {
	store := newTestStore(t)

	path := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(store.baseDir, "passwd"), path)
}
