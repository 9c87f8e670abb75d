package mediainfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// CalculateFPS reduces a "numerator/denominator" frame-rate string to a
// decimal frame rate: whole rates print with no decimals, fractional rates
// with exactly three. Anything that cannot be reduced (no slash, parse
// failure, zero or negative denominator) is returned unchanged.
func CalculateFPS(rate string) string {
	if rate == "" || !strings.Contains(rate, "/") {
		return rate
	}
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return rate
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || den <= 0 {
		return rate
	}
	fps := float64(num) / float64(den)
	if fps == math.Trunc(fps) {
		return strconv.FormatInt(int64(fps), 10)
	}
	return fmt.Sprintf("%.3f", fps)
}

// SimplifiedAspectRatio reduces pixel dimensions by their GCD and formats as
// "W:H". Zero or negative dimensions yield "N/A".
func SimplifiedAspectRatio(width, height int64) string {
	if width <= 0 || height <= 0 {
		return NotAvailable
	}
	common := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/common, height/common)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ParseDisplayAspectRatio parses a "W:H" string to a float ratio. The second
// return is false on a missing colon, parse failure, or zero height.
func ParseDisplayAspectRatio(dar string) (float64, bool) {
	if dar == "" || !strings.Contains(dar, ":") {
		return 0, false
	}
	parts := strings.SplitN(dar, ":", 2)
	w, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, false
	}
	h, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || h == 0 {
		return 0, false
	}
	return float64(w) / float64(h), true
}

// Canonical display-aspect-ratio buckets with inclusive tolerance bands.
// Checked in order; a ratio outside every band keeps its raw string.
var darBands = []struct {
	lo, hi float64
	label  string
}{
	{1.77, 1.78, "16:9"},
	{2.3, 2.4, "21:9"},
	{1.33, 1.34, "4:3"},
}

// DisplayAspectRatio resolves the display aspect ratio label for a video
// stream. A usable DAR string is bucketed into a canonical label when it
// falls inside a tolerance band and kept verbatim otherwise; an absent or
// unparseable DAR falls back to the simplified pixel ratio.
func DisplayAspectRatio(dar gjson.Result, width, height int64) string {
	s, ok := strValue(dar)
	if !ok || strings.EqualFold(s, NotAvailable) {
		return SimplifiedAspectRatio(width, height)
	}
	ratio, ok := ParseDisplayAspectRatio(s)
	if !ok {
		return SimplifiedAspectRatio(width, height)
	}
	for _, b := range darBands {
		if ratio >= b.lo && ratio <= b.hi {
			return b.label
		}
	}
	return s
}
