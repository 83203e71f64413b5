package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherHandleFileEvent(t *testing.T) {
	t.Parallel()
	dir := createTempDir(t, "watch-event-test")

	var handled []string
	w, err := NewWatcher([]string{dir}, func(path string) {
		handled = append(handled, path)
	}, nil)
	require.NoError(t, err)
	defer w.watcher.Close()
	w.delay = 0

	w.handleFileEvent(fsnotify.Event{Name: "a.py", Op: fsnotify.Write})
	w.handleFileEvent(fsnotify.Event{Name: "b.txt", Op: fsnotify.Write})
	w.handleFileEvent(fsnotify.Event{Name: "c.py", Op: fsnotify.Remove})
	w.handleFileEvent(fsnotify.Event{Name: "d.py", Op: fsnotify.Chmod})

	assert.Equal(t, []string{"a.py"}, handled)
}

func TestWatcherWatch(t *testing.T) {
	t.Parallel()
	dir := createTempDir(t, "watch-test")
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))

	written := make(chan string, 16)
	w, err := NewWatcher([]string{dir}, func(path string) {
		written <- path
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	target := filepath.Join(sub, "mod.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o644))

	select {
	case got := <-written:
		assert.Equal(t, target, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no write event delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	t.Parallel()
	_, err := NewWatcher([]string{filepath.Join(os.TempDir(), "py3port-does-not-exist")}, func(string) {}, nil)
	assert.Error(t, err)
}
