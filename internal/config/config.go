// Package config holds runtime configuration: defaults, an optional YAML
// config file, CLI flag parsing, and validation. Flags override file values,
// which override built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ReportFileName is the default report file created inside the scan root.
const ReportFileName = "media_info.html"

// cacheFileName is the default cache database created inside the scan root.
const cacheFileName = ".media_info_cache.db"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML file, and then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Scan root (positional arg; defaults to the current directory).
	InputDir string

	// Output.
	ReportPath string // Default: <input>/media_info.html.

	// Probing.
	FFprobePath  string        // Default: "ffprobe" (resolved via PATH).
	ProbeTimeout time.Duration // Default: 60s per file.
	Workers      int           // Default: 0 (auto: one per CPU core).

	// Cache.
	CacheDB string // Default: <input>/.media_info_cache.db.
	NoCache bool   // Probe every file, skip the cache entirely.

	// Behavior flags.
	Watch bool // Keep running and regenerate on filesystem changes.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// ConfigFile is the YAML file the settings were overlaid from, if any.
	ConfigFile string
}

// DefaultConfig returns a Config with all built-in defaults. Used as the
// base before the config file and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		InputDir:     ".",
		FFprobePath:  "ffprobe",
		ProbeTimeout: 60 * time.Second,
		Workers:      0,
		ColorMode:    ColorAuto,
	}
}

// fileConfig mirrors Config with YAML-friendly field types. Durations are
// written in Go notation ("90s", "2m").
type fileConfig struct {
	Input        string `yaml:"input"`
	Report       string `yaml:"report"`
	FFprobe      string `yaml:"ffprobe"`
	ProbeTimeout string `yaml:"probe_timeout"`
	Workers      *int   `yaml:"workers"`
	CacheDB      string `yaml:"cache_db"`
	NoCache      bool   `yaml:"no_cache"`
	Watch        bool   `yaml:"watch"`
	Color        string `yaml:"color"`
	LogFile      string `yaml:"log_file"`
	Verbose      bool   `yaml:"verbose"`
}

// ApplyFile overlays settings from the YAML file at path onto c. Absent
// fields keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Input != "" {
		c.InputDir = fc.Input
	}
	if fc.Report != "" {
		c.ReportPath = fc.Report
	}
	if fc.FFprobe != "" {
		c.FFprobePath = fc.FFprobe
	}
	if fc.ProbeTimeout != "" {
		d, err := time.ParseDuration(fc.ProbeTimeout)
		if err != nil {
			return fmt.Errorf("invalid probe_timeout %q: %w", fc.ProbeTimeout, err)
		}
		c.ProbeTimeout = d
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.CacheDB != "" {
		c.CacheDB = fc.CacheDB
	}
	if fc.NoCache {
		c.NoCache = true
	}
	if fc.Watch {
		c.Watch = true
	}
	if fc.Color != "" {
		c.ColorMode = ColorMode(strings.ToLower(fc.Color))
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.Verbose {
		c.Verbose = true
	}
	c.ConfigFile = path
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range constraints and fills the derived paths
// (report, cache database) that default relative to the scan root. When
// not in CheckOnly mode it also requires the input directory to exist.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	if c.FFprobePath == "" {
		return errors.New("ffprobe path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}

	if c.InputDir == "" {
		return errors.New("input directory must not be empty")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", c.InputDir)
	}

	if c.ReportPath == "" {
		c.ReportPath = filepath.Join(c.InputDir, ReportFileName)
	}
	if c.CacheDB == "" {
		c.CacheDB = filepath.Join(c.InputDir, cacheFileName)
	}
	return nil
}
