// Package check provides system diagnostics (--check mode) and pre-scan
// dependency validation for the ffprobe binary.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/Xzpy909/Media-Info-Generator/internal/config"
)

// ErrFFprobeNotFound is returned when the configured ffprobe binary
// cannot be resolved.
var ErrFFprobeNotFound = errors.New("ffprobe not found")

// Deps verifies the ffprobe binary resolves via PATH (or as given) and
// returns the resolved path. Called before the scan starts.
func Deps(cfg *config.Config) (string, error) {
	path, err := exec.LookPath(cfg.FFprobePath)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrFFprobeNotFound, cfg.FFprobePath)
	}
	return path, nil
}

// Run runs the interactive --check flow: ffprobe availability, version,
// and JSON output support. It logs findings and returns an error only
// when ffprobe is unusable.
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	log.Info("=== System Check ===")

	path, err := Deps(cfg)
	if err != nil {
		log.WithError(err).Error("ffprobe missing")
		return err
	}
	log.WithField("path", path).Info("ffprobe found")

	version, err := probeVersion(ctx, path)
	if err != nil {
		log.WithError(err).Error("ffprobe -version failed")
		return err
	}
	log.Info(version)

	if err := probeJSONSupport(ctx, path); err != nil {
		log.WithError(err).Error("ffprobe JSON output unusable")
		return err
	}
	log.Info("ffprobe JSON output works")
	return nil
}

// probeVersion returns the first line of ffprobe -version.
func probeVersion(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s -version: %w", path, err)
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}

// probeJSONSupport asks ffprobe to describe itself as JSON and validates
// the output parses.
func probeJSONSupport(ctx context.Context, path string) error {
	out, err := exec.CommandContext(ctx, path,
		"-v", "quiet", "-print_format", "json", "-show_program_version",
	).Output()
	if err != nil {
		return fmt.Errorf("running JSON self-probe: %w", err)
	}
	if !gjson.ValidBytes(out) {
		return errors.New("self-probe output is not valid JSON")
	}
	return nil
}
