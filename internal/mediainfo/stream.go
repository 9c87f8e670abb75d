package mediainfo

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// Codecs that mark a narrow video stream as legacy Dolby Vision metadata
// (embedded thumbnails, compatibility layers). Matched case-insensitively.
var legacyDoviCodecs = map[string]bool{
	"mjpeg": true,
	"h264":  true,
	"avc":   true,
}

// narrowWidthLimit separates decorative/legacy video streams from real
// content: anything at or above it counts as a main stream.
const narrowWidthLimit = 1000

// videoEntry pairs a finished video record with the transient flags the file
// summarizer needs for cross-stream filtering. The flags are computed
// alongside the record, never stored in it, so nothing has to be stripped
// before the record is returned.
type videoEntry struct {
	record     Record
	width      int64
	legacyDovi bool
}

// displayValue resolves a loose field to its display string, or "N/A".
func displayValue(v gjson.Result) string {
	s, ok := strValue(v)
	if !ok {
		return NotAvailable
	}
	return s
}

// streamBitrate resolves a stream's bit rate in bits per second, preferring
// the muxer's BPS tag over the stream-level bit_rate field. A present but
// malformed BPS tag leaves the bitrate unresolved rather than falling back;
// the tag is authoritative when the muxer wrote one.
func streamBitrate(stream gjson.Result) (int64, bool) {
	if bps := stream.Get("tags.BPS"); present(bps) {
		return intValue(bps)
	}
	return intValue(stream.Get("bit_rate"))
}

// bitrateField builds the display bitrate with its share of the file's
// overall bitrate, e.g. "4521 kb/s (45%)". The percentage is capped at 100
// to absorb encoder overhead and is omitted when it rounds to zero or the
// overall bitrate is unknown. The second return is false when the stream has
// no resolvable bitrate at all; callers then omit the field entirely.
func bitrateField(stream gjson.Result, overallBps int64) (string, bool) {
	bps, ok := streamBitrate(stream)
	if !ok || bps <= 0 {
		return "", false
	}
	label, _ := FormatBitrate(bps)
	if overallBps > 0 {
		pct := math.Round(math.Min(float64(bps)/float64(overallBps)*100, 100))
		if pct >= 1 {
			label += fmt.Sprintf(" (%d%%)", int64(pct))
		}
	}
	return label, true
}

func normalizeVideo(stream gjson.Result, overallBps int64) videoEntry {
	codec := displayValue(stream.Get("codec_name"))
	width, wok := intValue(stream.Get("width"))
	height, hok := intValue(stream.Get("height"))

	resolution := NotAvailable
	if wok && hok {
		ar := DisplayAspectRatio(stream.Get("display_aspect_ratio"), width, height)
		resolution = fmt.Sprintf("%dx%d (%s)", width, height, ar)
	}

	fps := NotAvailable
	if rate, ok := strValue(stream.Get("r_frame_rate")); ok {
		fps = CalculateFPS(rate)
	}

	dovi := DetectDolbyVision(stream)
	hdr := DetectHDR(stream)

	var rec Record
	rec.add("Codec", DecorateCodec(codec, dovi, hdr))
	rec.add("Bit-depth", VideoBitDepth(stream))
	rec.add("Resolution", resolution)
	rec.add("FPS", fps)
	if label, ok := bitrateField(stream, overallBps); ok {
		rec.add("Bitrate", label)
	}

	return videoEntry{
		record:     rec,
		width:      width,
		legacyDovi: width < narrowWidthLimit && legacyDoviCodecs[strings.ToLower(codec)],
	}
}

func normalizeAudio(stream gjson.Result, overallBps int64) Record {
	codec := displayValue(stream.Get("codec_name"))

	// TrueHD and E-AC-3 report the interesting variant (Atmos, DD+) in the
	// profile field, so prefer it for display.
	displayCodec := codec
	switch strings.ToLower(codec) {
	case "truehd", "eac3":
		if profile, ok := strValue(stream.Get("profile")); ok {
			displayCodec = profile
		}
	}

	var rec Record
	rec.add("ID", displayValue(stream.Get("index")))
	rec.add("Language", displayValue(stream.Get("tags.language")))
	rec.add("Codec", displayCodec)
	rec.add("Channels", displayValue(stream.Get("channels")))
	rec.add("Sample Rate", displayValue(stream.Get("sample_rate")))
	if label, ok := bitrateField(stream, overallBps); ok {
		rec.add("Bitrate", label)
	}
	if !IsLossyAudio(codec) {
		sampleFmt := stream.Get("sample_fmt").String()
		rec.add("Bit-depth", AudioBitDepth(sampleFmt, stream.Get("bits_per_sample"), codec))
	}
	return rec
}

func normalizeSubtitle(stream gjson.Result) Record {
	var rec Record
	rec.add("Language", displayValue(stream.Get("tags.language")))
	rec.add("Type", displayValue(stream.Get("codec_name")))
	rec.add("ID", displayValue(stream.Get("index")))
	return rec
}
