package mediainfo

import (
	"strings"

	"github.com/tidwall/gjson"
)

// UnknownLossy is the bit-depth sentinel for streams whose depth cannot be
// determined, which in practice means lossy or unusual encodings.
const UnknownLossy = "Unknown / Lossy"

// Codecs that never carry a meaningful bit depth. Streams using these never
// get a Bit-depth field at all.
var lossyAudioCodecs = map[string]bool{
	"opus":   true,
	"aac":    true,
	"mp3":    true,
	"vorbis": true,
	"ac3":    true,
	"eac3":   true,
	"dts":    true,
	"dtshd":  true,
}

// IsLossyAudio reports whether codec (matched case-insensitively) is in the
// known-lossy set.
func IsLossyAudio(codec string) bool {
	return lossyAudioCodecs[strings.ToLower(codec)]
}

// CleanBitDepth maps absent, empty, "0", and "N/A" (case-insensitive) raw
// depth values to the "Unknown / Lossy" sentinel; anything else passes
// through in string form.
func CleanBitDepth(v gjson.Result) string {
	s, ok := strValue(v)
	if !ok {
		return UnknownLossy
	}
	if s == "0" || strings.EqualFold(s, NotAvailable) {
		return UnknownLossy
	}
	return s
}

// VideoBitDepth infers a video stream's bit depth. The pixel format hint is
// authoritative for high-depth streams ("12" before "10": yuv420p12le also
// contains neither substring of the other, but the order is load-bearing for
// formats that embed both digits). Without a hint it falls back to the raw
// sample depth field, preferring bits_per_raw_sample over bits_per_sample.
func VideoBitDepth(stream gjson.Result) string {
	pixFmt := strings.ToLower(stream.Get("pix_fmt").String())
	if strings.Contains(pixFmt, "12") {
		return "12-bit"
	}
	if strings.Contains(pixFmt, "10") {
		return "10-bit"
	}
	raw := stream.Get("bits_per_raw_sample")
	if !present(raw) {
		raw = stream.Get("bits_per_sample")
	}
	return CleanBitDepth(raw)
}

// sampleFmtDepth maps sample-format substrings to depth labels in priority
// order. First match wins; do not reorder.
var sampleFmtDepths = []struct {
	substr string
	label  string
}{
	{"s8", "8-bit"},
	{"s16", "16-bit"},
	{"s24", "24-bit"},
	{"s32", "32-bit Integer"},
	{"flt", "32-bit Float"},
	{"dbl", "64-bit Float"},
}

// AudioBitDepth infers an audio stream's bit depth from its sample format,
// falling back to the raw bits_per_sample field when no format hint exists or
// nothing matches. FLAC advertising s32 is the well-known 24-bit-in-32-bit
// container convention and is labelled accordingly.
func AudioBitDepth(sampleFmt string, bitsPerSample gjson.Result, codec string) string {
	if sampleFmt == "" {
		return CleanBitDepth(bitsPerSample)
	}
	// Strip planar/interleaved markers so "s16p" and "s16" match alike.
	fmtHint := strings.ToLower(sampleFmt)
	fmtHint = strings.ReplaceAll(fmtHint, "p", "")
	fmtHint = strings.ReplaceAll(fmtHint, "i", "")

	for _, d := range sampleFmtDepths {
		if !strings.Contains(fmtHint, d.substr) {
			continue
		}
		if d.substr == "s32" && strings.EqualFold(codec, "flac") {
			return "24-bit (32-bit container)"
		}
		return d.label
	}
	return CleanBitDepth(bitsPerSample)
}
