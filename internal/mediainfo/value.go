package mediainfo

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// This file holds the loose-value accessors shared by the formatters and the
// stream normalizer. ffprobe emits most numbers as JSON strings, some as JSON
// numbers, and omits or nulls anything it could not determine; these helpers
// collapse all of that into (value, present) pairs so that sentinel strings
// are only produced at the final formatting boundary.

// present reports whether v carries a usable value: it exists, is not JSON
// null, and is not an empty string.
func present(v gjson.Result) bool {
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	if v.Type == gjson.String && v.Str == "" {
		return false
	}
	return true
}

// strValue returns the string form of v, or ("", false) when absent.
func strValue(v gjson.Result) (string, bool) {
	if !present(v) {
		return "", false
	}
	return v.String(), true
}

// intValue parses v as a whole number. Strings with fractional parts or
// garbage fail, matching the strictness expected for byte sizes and bitrates.
func intValue(v gjson.Result) (int64, bool) {
	if !present(v) {
		return 0, false
	}
	if v.Type == gjson.Number {
		return v.Int(), true
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// floatValue parses v as a float for duration-style fields.
func floatValue(v gjson.Result) (float64, bool) {
	if !present(v) {
		return 0, false
	}
	if v.Type == gjson.Number {
		return v.Float(), true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
