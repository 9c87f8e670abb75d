package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/library", "/media/library"},
		{"single trailing slash", "/media/library/", "/media/library"},
		{"multiple trailing slashes", "/media/library///", "/media/library"},
		{"root path", "/", "/"},
		{"relative path", "library", "library"},
		{"relative with slash", "library/", "library"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.Workers = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CheckOnly = true
	cfg.ProbeTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CheckOnly = true
	cfg.FFprobePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_FillsDerivedPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.InputDir = dir

	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(dir, ReportFileName), cfg.ReportPath)
	assert.Equal(t, filepath.Join(dir, cacheFileName), cfg.CacheDB)
}

func TestValidate_KeepsExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.InputDir = dir
	cfg.ReportPath = "/tmp/custom.html"
	cfg.CacheDB = "/tmp/custom.db"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/tmp/custom.html", cfg.ReportPath)
	assert.Equal(t, "/tmp/custom.db", cfg.CacheDB)
}

func TestValidate_InputMustExist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = filepath.Join(t.TempDir(), "missing")
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.InputDir = ""
	assert.Error(t, cfg.Validate())
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: /media/library
probe_timeout: 90s
workers: 4
color: never
verbose: true
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, "/media/library", cfg.InputDir)
	assert.Equal(t, 90*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, path, cfg.ConfigFile)

	// Absent fields keep their defaults.
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
}

func TestApplyFile_Errors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "missing.yml")))

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("probe_timeout: [nope"), 0o644))
	assert.Error(t, cfg.ApplyFile(bad))

	badDur := filepath.Join(t.TempDir(), "dur.yml")
	require.NoError(t, os.WriteFile(badDur, []byte("probe_timeout: soon"), 0o644))
	assert.Error(t, cfg.ApplyFile(badDur))
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{"--workers", "8", "--no-cache", "--color", "never", "/media"})
	require.NoError(t, err)

	assert.Equal(t, "/media", cfg.InputDir)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.NoCache)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.Equal(t, 60*time.Second, cfg.ProbeTimeout)
}

func TestParseFlags_ConfigFileThenOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nffprobe: /opt/ffprobe\n"), 0o644))

	cfg, err := ParseFlags([]string{"--config", path, "--workers", "16"})
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Workers, "explicit flags win over the file")
	assert.Equal(t, "/opt/ffprobe", cfg.FFprobePath, "file values hold when no flag is given")
}

func TestParseFlags_Rejects(t *testing.T) {
	_, err := ParseFlags([]string{"--color", "rainbow"})
	assert.Error(t, err)

	_, err = ParseFlags([]string{"--workers", "lots"})
	assert.Error(t, err)
}

func TestFindConfigArg(t *testing.T) {
	assert.Equal(t, "a.yml", findConfigArg([]string{"--config", "a.yml"}))
	assert.Equal(t, "a.yml", findConfigArg([]string{"--config=a.yml", "dir"}))
	assert.Equal(t, "a.yml", findConfigArg([]string{"-C", "a.yml"}))
	assert.Equal(t, "", findConfigArg([]string{"--verbose", "dir"}))
	assert.Equal(t, "", findConfigArg([]string{"--config"}))
}
