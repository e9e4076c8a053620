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

// Test Plan for the file watcher:
// - Reports a changed file with a monitored extension after the debounce window
// - Ignores files with unmonitored extensions
// - Stop is safe without Start and is idempotent

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()

	fw, err := New([]string{dir}, []string{".rs"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	changed := make(chan []string, 1)
	require.NoError(t, fw.Start(context.Background(), func(files []string) {
		select {
		case changed <- files:
		default:
		}
	}))

	path := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn x() {}\n"), 0o644))

	select {
	case files := <-changed:
		assert.Contains(t, files, path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	fw, err := New([]string{dir}, []string{".rs"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	changed := make(chan []string, 1)
	require.NoError(t, fw.Start(context.Background(), func(files []string) {
		select {
		case changed <- files:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case files := <-changed:
		t.Fatalf("unexpected callback for %v", files)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	fw, err := New([]string{t.TempDir()}, []string{".rs"}, 50*time.Millisecond)
	require.NoError(t, err)

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
