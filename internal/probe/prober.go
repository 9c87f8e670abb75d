package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/tidwall/gjson"
)

// Result is the parsed output of a single ffprobe JSON call. The zero value
// behaves like an empty probe: no format section, no streams.
type Result struct {
	root gjson.Result
}

// Run executes a single ffprobe JSON call against path and returns the raw
// JSON bytes. The caller owns process-level policy (timeout via ctx, error
// reporting); a non-zero exit or unparseable output is the caller's problem
// to report, never the normalizer's.
func Run(ctx context.Context, ffprobeBin, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffprobe %q: %w: %s", path, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return out, nil
}

// Parse wraps raw ffprobe JSON output in a Result. Exported separately from
// [Run] so cached probe output can be re-parsed without a real ffprobe binary.
func Parse(data []byte) (Result, error) {
	if !gjson.ValidBytes(data) {
		return Result{}, errors.New("invalid ffprobe JSON")
	}
	return Result{root: gjson.ParseBytes(data)}, nil
}

// Format returns the whole-file "format" section. A missing section yields a
// non-existent value, which downstream formatters resolve to their sentinels.
func (r Result) Format() gjson.Result {
	return r.root.Get("format")
}

// Streams returns the per-stream metadata blocks in container order. A
// missing or malformed "streams" section yields an empty slice.
func (r Result) Streams() []gjson.Result {
	return r.root.Get("streams").Array()
}
