// Package pipeline orchestrates file discovery, concurrent probing, and
// folder grouping for the report.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"

	"github.com/Xzpy909/Media-Info-Generator/internal/cache"
	"github.com/Xzpy909/Media-Info-Generator/internal/config"
	"github.com/Xzpy909/Media-Info-Generator/internal/mediainfo"
	"github.com/Xzpy909/Media-Info-Generator/internal/probe"
	"github.com/Xzpy909/Media-Info-Generator/internal/report"
	"github.com/Xzpy909/Media-Info-Generator/internal/term"
)

// fileResult is one probed file, carried from a worker to the collector.
type fileResult struct {
	path    string
	summary mediainfo.Summary
	size    int64
	cached  bool
	err     error
}

// Run discovers media files under cfg.InputDir, probes them on a bounded
// worker pool, and returns the summaries grouped by folder in report
// order: scan root first, then subfolders sorted by path, files sorted
// by name. store may be nil when caching is disabled.
func Run(ctx context.Context, cfg *config.Config, store *cache.Store, log *logrus.Logger) ([]report.Folder, RunStats, error) {
	var stats RunStats

	files, err := Discover(cfg.InputDir, cfg.ReportPath)
	if err != nil {
		return nil, stats, err
	}
	stats.Total = len(files)
	if len(files) == 0 {
		log.Warn("No media files found")
		return nil, stats, nil
	}

	workers := workerCount(cfg.Workers)
	log.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": workers,
	}).Info("Starting scan")

	bar := NewProgress(os.Stdout, len(files), term.IsTerminal(os.Stdout))
	results := probeAll(ctx, cfg, store, log, files, workers, bar)
	bar.Finish()

	folders := group(cfg.InputDir, results, &stats)
	logSummary(log, &stats)
	return folders, stats, ctx.Err()
}

// workerCount resolves the configured worker count; 0 means one worker
// per logical CPU core.
func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// probeAll fans the file list out to a bounded pool of probe workers and
// collects the per-file results.
func probeAll(
	ctx context.Context,
	cfg *config.Config,
	store *cache.Store,
	log *logrus.Logger,
	files []string,
	workers int,
	bar *Progress,
) []fileResult {
	jobs := make(chan string)
	out := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				out <- probeOne(ctx, cfg, store, path)
				bar.Increment()
			}
		}()
	}

	for _, path := range files {
		select {
		case jobs <- path:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]fileResult, 0, len(files))
	for r := range out {
		if r.err != nil {
			log.WithField("file", r.path).WithError(r.err).Warn("Probe failed")
		}
		results = append(results, r)
	}
	return results
}

// probeOne probes a single file, going through the cache when possible.
func probeOne(ctx context.Context, cfg *config.Config, store *cache.Store, path string) fileResult {
	res := fileResult{path: path}

	fi, err := os.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	res.size = fi.Size()
	size, mtime := fi.Size(), fi.ModTime().Unix()

	var data []byte
	if store != nil {
		if cached, ok := store.Get(ctx, path, size, mtime); ok {
			data = cached
			res.cached = true
		}
	}

	if data == nil {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		data, err = probe.Run(probeCtx, cfg.FFprobePath, path)
		cancel()
		if err != nil {
			res.err = err
			return res
		}
		if store != nil {
			// A cache write failure only costs a re-probe next run.
			_ = store.Put(ctx, path, size, mtime, data)
		}
	}

	parsed, err := probe.Parse(data)
	if err != nil {
		res.err = err
		return res
	}
	res.summary = mediainfo.Summarize(parsed)
	return res
}

// group arranges successful results into report folders relative to the
// scan root and fills the aggregate stats.
func group(root string, results []fileResult, stats *RunStats) []report.Folder {
	byFolder := make(map[string][]report.File)
	for _, r := range results {
		if r.err != nil {
			stats.Failed++
			continue
		}
		stats.Probed++
		stats.TotalBytes += r.size
		if r.cached {
			stats.CacheHits++
		}

		rel, err := filepath.Rel(root, r.path)
		if err != nil {
			rel = r.path
		}
		folder := filepath.ToSlash(filepath.Dir(rel))
		byFolder[folder] = append(byFolder[folder], report.File{
			Name:    filepath.Base(r.path),
			Summary: r.summary,
		})
	}

	names := make([]string, 0, len(byFolder))
	for name := range byFolder {
		if name != "." {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := byFolder["."]; ok {
		names = append([]string{"."}, names...)
	}

	folders := make([]report.Folder, 0, len(names))
	for _, name := range names {
		files := byFolder[name]
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		folders = append(folders, report.Folder{Name: name, Files: files})
	}
	return folders
}

func logSummary(log *logrus.Logger, stats *RunStats) {
	log.WithFields(logrus.Fields{
		"probed":     stats.Probed,
		"failed":     stats.Failed,
		"cache_hits": stats.CacheHits,
		"total_size": humanize.IBytes(uint64(stats.TotalBytes)),
	}).Info("Scan complete")
}
