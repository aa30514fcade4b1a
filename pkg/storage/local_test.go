package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, "statement_ocr.txt", strings.NewReader("11/25 WALMART -59.97\n"))
	require.NoError(t, err)
	assert.Equal(t, "statement_ocr.txt", info.Name)
	assert.Equal(t, int64(21), info.Size)

	rc, got, err := store.Get(ctx, "statement_ocr.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "11/25 WALMART -59.97\n", string(data))
	assert.Equal(t, info.Size, got.Size)
}

func TestLocalStore_PutOverwrites(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "a.txt", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "a.txt", strings.NewReader("second"))
	require.NoError(t, err)

	rc, _, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(data))
}

func TestLocalStore_ExistsAndDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Put(ctx, "present.txt", strings.NewReader("x"))
	require.NoError(t, err)
	ok, err = store.Exists(ctx, "present.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "present.txt"))
	ok, _ = store.Exists(ctx, "present.txt")
	assert.False(t, ok)

	// Deleting again stays quiet.
	assert.NoError(t, store.Delete(ctx, "present.txt"))
}

func TestLocalStore_List(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"jan_ocr.txt", "feb_ocr.txt", "report.xlsx"} {
		_, err := store.Put(ctx, name, strings.NewReader(name))
		require.NoError(t, err)
	}

	infos, err := store.List(ctx, "*_ocr.txt")
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestLocalStore_RejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = store.Put(ctx, "/abs/path.txt", strings.NewReader("x"))
	assert.Error(t, err)
}
