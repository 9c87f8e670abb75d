package config

// This file implements CLI flag parsing. The config file is located with a
// cheap pre-scan of the arguments so its values can act as flag defaults;
// kingpin then parses the full command line on top of them.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X .../internal/config.version=...".
var version = "1.0.0-dev"

// Version returns the build version string.
func Version() string { return version }

// findConfigArg extracts the --config value from raw arguments before the
// real parse, so the file can be applied first.
func findConfigArg(args []string) string {
	for i, arg := range args {
		if arg == "--config" || arg == "-C" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return ""
}

// ParseFlags parses args (without the program name) into a Config. A
// --config file, when given, is applied before the flags so explicit
// flags always win. On --help or --version kingpin prints and exits.
func ParseFlags(args []string) (Config, error) {
	cfg := DefaultConfig()
	if path := findConfigArg(args); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return cfg, err
		}
	}

	app := kingpin.New("mediainfogen", "Scan a directory tree with ffprobe and generate an HTML media report.")
	app.Version("mediainfogen v" + version)
	app.HelpFlag.Short('h')

	app.Flag("config", "YAML config file applied before the flags.").Short('C').String()
	app.Flag("output", "Report file path.").Short('o').
		Default(cfg.ReportPath).StringVar(&cfg.ReportPath)
	app.Flag("ffprobe", "ffprobe binary to invoke.").
		Default(cfg.FFprobePath).StringVar(&cfg.FFprobePath)
	app.Flag("probe-timeout", "Per-file ffprobe timeout.").
		Default(cfg.ProbeTimeout.String()).DurationVar(&cfg.ProbeTimeout)
	app.Flag("workers", "Concurrent probes (0 = one per CPU core).").Short('j').
		Default(strconv.Itoa(cfg.Workers)).IntVar(&cfg.Workers)
	app.Flag("cache-db", "Probe cache database path.").
		Default(cfg.CacheDB).StringVar(&cfg.CacheDB)
	app.Flag("no-cache", "Probe every file; do not read or write the cache.").
		Default(boolDefault(cfg.NoCache)).BoolVar(&cfg.NoCache)
	app.Flag("watch", "Keep running and regenerate the report on changes.").Short('w').
		Default(boolDefault(cfg.Watch)).BoolVar(&cfg.Watch)
	app.Flag("color", "Colored logs: auto | always | never.").
		Default(string(cfg.ColorMode)).EnumVar((*string)(&cfg.ColorMode), "auto", "always", "never")
	app.Flag("log", "Append logs to file.").Short('l').
		Default(cfg.LogFile).StringVar(&cfg.LogFile)
	app.Flag("verbose", "Verbose output.").Short('v').
		Default(boolDefault(cfg.Verbose)).BoolVar(&cfg.Verbose)
	app.Flag("check", "Run ffprobe diagnostics and exit.").Short('c').
		BoolVar(&cfg.CheckOnly)
	app.Arg("dir", "Directory to scan.").Default(cfg.InputDir).StringVar(&cfg.InputDir)

	if _, err := app.Parse(args); err != nil {
		return cfg, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	return cfg, nil
}

func boolDefault(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
