package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func startWatcher(t *testing.T, root string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()
	w, err := New(root, 50*time.Millisecond, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	go func() {
		defer w.Close()
		_ = w.Run(ctx, func() { changes <- struct{}{} })
	}()
	t.Cleanup(cancel)
	return changes, cancel
}

func waitForChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no rescan was triggered")
	}
}

func TestWatcherTriggersOnMediaFile(t *testing.T) {
	dir := t.TempDir()
	changes, _ := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.mkv"), []byte("x"), 0o644))
	waitForChange(t, changes)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	changes, _ := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("a non-media file must not trigger a rescan")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	changes, _ := startWatcher(t, dir)

	sub := filepath.Join(dir, "season1")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitForChange(t, changes)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "e01.mkv"), []byte("x"), 0o644))
	waitForChange(t, changes)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond, quietLogger())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() {}) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
