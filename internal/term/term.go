// Package term provides terminal detection and the ANSI color decision.
//
// The decision is package-level state because both the logger and the
// progress bar need it for output formatting. [Configure] resolves it once
// during startup.
package term

import (
	"os"
	"strings"

	"github.com/Xzpy909/Media-Info-Generator/internal/config"
)

var enabled bool

// Configure resolves the color mode and stores the result. Call once
// during startup, before the logger is built.
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return enabled }

// resolve determines whether colors should be enabled based on the
// configured mode, TTY detection, and the NO_COLOR env var
// (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
