package mediainfo

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// NotAvailable is the display sentinel for values that are missing or
// unparseable. It is produced only at the formatting boundary; intermediate
// computation uses explicit (value, ok) pairs instead.
const NotAvailable = "N/A"

const (
	mib = 1024 * 1024
	gib = 1024 * 1024 * 1024
)

// FormatSize renders a byte count using binary units: "X.XX GiB" at or above
// one GiB, "X.XX MiB" above zero, "0 MiB" for zero. Missing, malformed, or
// negative input yields "N/A".
func FormatSize(v gjson.Result) string {
	bytes, ok := intValue(v)
	if !ok || bytes < 0 {
		return NotAvailable
	}
	switch {
	case bytes >= gib:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/gib)
	case bytes > 0:
		return fmt.Sprintf("%.2f MiB", float64(bytes)/mib)
	}
	return "0 MiB"
}

// FormatDuration renders a second count as zero-padded HH:MM:SS with no upper
// bound on hours. Missing, malformed, or negative input yields "N/A".
func FormatDuration(v gjson.Result) string {
	seconds, ok := floatValue(v)
	if !ok || seconds < 0 {
		return NotAvailable
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatBitrate renders bits per second as a rounded "NNN kb/s" label using
// metric scaling. The second return is false for non-positive input, so
// callers can distinguish "no bitrate" from a real zero and omit the field.
func FormatBitrate(bps int64) (string, bool) {
	if bps <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.0f kb/s", math.Round(float64(bps)/1000)), true
}
