// Package logging builds the process-wide logger: leveled, optionally
// colored output on stderr with an optional file sink appended.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Xzpy909/Media-Info-Generator/internal/config"
	"github.com/Xzpy909/Media-Info-Generator/internal/term"
)

// New creates the logger from cfg. The returned cleanup closes the log
// file sink, if one was opened, and is safe to call unconditionally.
func New(cfg *config.Config) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     term.Enabled(),
		DisableColors:   !term.Enabled(),
	})
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cleanup := func() {}
	out := io.Writer(os.Stderr)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, cleanup, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		cleanup = func() { f.Close() }
	}

	log.SetOutput(out)
	return log, cleanup, nil
}
