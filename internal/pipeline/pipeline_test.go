package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xzpy909/Media-Info-Generator/internal/cache"
	"github.com/Xzpy909/Media-Info-Generator/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.mkv"))
	writeFile(t, filepath.Join(dir, "a.mp4"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "cover.MKV"))
	writeFile(t, filepath.Join(dir, "sub", "deep", "c.webm"))
	writeFile(t, filepath.Join(dir, "media_info.html"))

	files, err := Discover(dir, filepath.Join(dir, "media_info.html"))
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mkv"),
		filepath.Join(dir, "cover.MKV"),
		filepath.Join(dir, "sub", "deep", "c.webm"),
	}
	assert.Equal(t, want, files)
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, IsMediaFile("/a/b.mkv"))
	assert.True(t, IsMediaFile("/a/B.MP4"))
	assert.False(t, IsMediaFile("/a/b.txt"))
	assert.False(t, IsMediaFile("/a/b"))
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 3, workerCount(3))
	assert.Greater(t, workerCount(0), 0)
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgress(&buf, 2, true)

	bar.Increment()
	assert.Contains(t, buf.String(), "50% (1/2)")

	bar.Finish()
	assert.Contains(t, buf.String(), "100% (2/2)")
	assert.Contains(t, buf.String(), "\n")
}

func TestProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgress(&buf, 2, false)
	bar.Increment()
	bar.Finish()
	assert.Empty(t, buf.String())
}

func TestGroupOrdersRootFirst(t *testing.T) {
	var stats RunStats
	results := []fileResult{
		{path: "/media/zeta/b.mkv", size: 10},
		{path: "/media/a.mkv", size: 20},
		{path: "/media/alpha/z.mkv", size: 30},
		{path: "/media/alpha/a.mkv", size: 40},
		{path: "/media/broken.mkv", err: os.ErrNotExist},
	}

	folders := group("/media", results, &stats)

	require.Len(t, folders, 3)
	assert.Equal(t, ".", folders[0].Name)
	assert.Equal(t, "alpha", folders[1].Name)
	assert.Equal(t, "zeta", folders[2].Name)

	assert.Equal(t, "a.mkv", folders[1].Files[0].Name)
	assert.Equal(t, "z.mkv", folders[1].Files[1].Name)

	assert.Equal(t, 4, stats.Probed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, int64(100), stats.TotalBytes)
}

func TestProbeOneUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mkv")
	writeFile(t, path)

	fi, err := os.Stat(path)
	require.NoError(t, err)

	store, err := cache.Open(filepath.Join(dir, "probe.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	payload := []byte(`{"streams": [], "format": {"size": "1", "duration": "1"}}`)
	require.NoError(t, store.Put(ctx, path, fi.Size(), fi.ModTime().Unix(), payload))

	cfg := config.DefaultConfig()
	// A bogus binary proves the cache hit never invokes ffprobe.
	cfg.FFprobePath = "definitely-not-a-real-ffprobe-binary"

	res := probeOne(ctx, &cfg, store, path)
	require.NoError(t, res.err)
	assert.True(t, res.cached)

	got, ok := res.summary.General.Get("Duration")
	require.True(t, ok)
	assert.Equal(t, "00:00:01", got)
}

func TestProbeOneStatFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	res := probeOne(context.Background(), &cfg, nil, filepath.Join(t.TempDir(), "missing.mkv"))
	assert.Error(t, res.err)
}

func TestRunWithCachedFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "sub", "b.mp4")
	writeFile(t, a)
	writeFile(t, b)

	store, err := cache.Open(filepath.Join(t.TempDir(), "probe.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	payload := []byte(`{"streams": [], "format": {"size": "1", "duration": "1"}}`)
	for _, path := range []string{a, b} {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, path, fi.Size(), fi.ModTime().Unix(), payload))
	}

	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	cfg.FFprobePath = "definitely-not-a-real-ffprobe-binary"
	cfg.ProbeTimeout = time.Second
	cfg.Workers = 2
	require.NoError(t, cfg.Validate())

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	folders, stats, err := Run(ctx, &cfg, store, log)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Probed)
	assert.Equal(t, 2, stats.CacheHits)
	assert.Equal(t, 0, stats.Failed)

	require.Len(t, folders, 2)
	assert.Equal(t, ".", folders[0].Name)
	assert.Equal(t, "sub", folders[1].Name)
}
