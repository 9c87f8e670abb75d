// Command mediainfogen scans a directory tree with ffprobe and writes a
// self-contained HTML report of every media file found. With --watch it
// keeps running and regenerates the report when files change.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Xzpy909/Media-Info-Generator/internal/cache"
	"github.com/Xzpy909/Media-Info-Generator/internal/check"
	"github.com/Xzpy909/Media-Info-Generator/internal/config"
	"github.com/Xzpy909/Media-Info-Generator/internal/logging"
	"github.com/Xzpy909/Media-Info-Generator/internal/pipeline"
	"github.com/Xzpy909/Media-Info-Generator/internal/report"
	"github.com/Xzpy909/Media-Info-Generator/internal/term"
	"github.com/Xzpy909/Media-Info-Generator/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediainfogen: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mediainfogen: %v\n", err)
		return 1
	}

	term.Configure(cfg.ColorMode)
	log, cleanup, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediainfogen: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CheckOnly {
		if err := check.Run(ctx, &cfg, log); err != nil {
			return 1
		}
		return 0
	}

	if _, err := check.Deps(&cfg); err != nil {
		log.Error(err)
		return 1
	}

	var store *cache.Store
	if !cfg.NoCache {
		store, err = cache.Open(cfg.CacheDB)
		if err != nil {
			log.WithError(err).Error("Cannot open probe cache")
			return 1
		}
		defer store.Close()
	}

	log.WithField("dir", cfg.InputDir).Info("mediainfogen v" + config.Version())

	if err := scanAndReport(ctx, &cfg, store, log); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Interrupted")
			return 130
		}
		log.Error(err)
		return 1
	}

	if !cfg.Watch {
		return 0
	}

	w, err := watch.New(cfg.InputDir, watch.DefaultDebounce, log)
	if err != nil {
		log.WithError(err).Error("Cannot start watcher")
		return 1
	}
	defer w.Close()

	log.Info("Watching for changes (Ctrl-C to stop)")
	err = w.Run(ctx, func() {
		if err := scanAndReport(ctx, &cfg, store, log); err != nil &&
			!errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Rescan failed")
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(err)
		return 1
	}
	return 0
}

// scanAndReport runs one full scan and atomically replaces the report.
func scanAndReport(ctx context.Context, cfg *config.Config, store *cache.Store, log *logrus.Logger) error {
	folders, _, err := pipeline.Run(ctx, cfg, store, log)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		log.Warn("No media information extracted, report skipped")
		return nil
	}

	page, err := report.Render(folders)
	if err != nil {
		return err
	}
	if err := report.WriteAtomic(cfg.ReportPath, page); err != nil {
		return err
	}
	log.WithField("path", cfg.ReportPath).Info("HTML report generated")
	return nil
}
