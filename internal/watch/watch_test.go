package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitChange(w *Watcher, timeout time.Duration) bool {
	select {
	case _, ok := <-w.Changes():
		return ok
	case <-time.After(timeout):
		return false
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.lang")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.Path())

	require.NoError(t, os.WriteFile(path, []byte("a=2\n"), 0o644))
	assert.True(t, waitChange(w, 5*time.Second))
}

func TestWatcher_ReportsReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.lang")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()

	tmp := filepath.Join(dir, ".server.lang.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("a=3\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.True(t, waitChange(w, 5*time.Second))
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.lang")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.lang"), []byte("b=1\n"), 0o644))
	assert.False(t, waitChange(w, 300*time.Millisecond))
}

func TestWatcher_CloseEndsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.lang")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("changes channel was not closed")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "server.lang"))
	assert.Error(t, err)
}
