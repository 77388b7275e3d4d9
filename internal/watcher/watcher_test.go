package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o700))

	files, err := ListPDFs(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, files)
}

func TestWatcher_EmitsSettledList(t *testing.T) {
	dir := t.TempDir()
	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	batches, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.pdf"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.pdf"), []byte("x"), 0o600))

	select {
	case files := <-batches:
		assert.Len(t, files, 2)
	case <-ctx.Done():
		t.Fatal("timeout waiting for batch")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case <-batches:
		t.Fatal("unexpected batch for non-pdf file")
	case <-time.After(300 * time.Millisecond):
	}
}
