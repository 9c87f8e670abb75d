package mediainfo

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Xzpy909/Media-Info-Generator/internal/probe"
)

// Summary is the normalized view of one media file: display records for each
// surviving stream plus the whole-file general section. All values are
// finalized display strings.
type Summary struct {
	Video    []Record
	Audio    []Record
	Subtitle []Record
	General  Record
}

// Summarize turns one probe result into a Summary. It never fails: missing
// sections are treated as empty, malformed fields resolve to their sentinels,
// and streams with unknown codec types are ignored. The overall bitrate is
// computed exactly once and used as the denominator for every stream's
// relative-bitrate percentage.
func Summarize(r probe.Result) Summary {
	format := r.Format()
	overallBps := overallBitrate(format)

	var general Record
	general.add("Filesize", FormatSize(format.Get("size")))
	general.add("Container", containerName(format))
	general.add("Duration", FormatDuration(format.Get("duration")))
	if label, ok := FormatBitrate(overallBps); ok {
		general.add("Overall Bitrate", label)
	} else {
		general.add("Overall Bitrate", NotAvailable)
	}

	var videos []videoEntry
	var audio, subtitles []Record
	for _, stream := range r.Streams() {
		switch stream.Get("codec_type").String() {
		case "video":
			videos = append(videos, normalizeVideo(stream, overallBps))
		case "audio":
			audio = append(audio, normalizeAudio(stream, overallBps))
		case "subtitle":
			subtitles = append(subtitles, normalizeSubtitle(stream))
		}
	}

	return Summary{
		Video:    filterLegacyDovi(videos),
		Audio:    audio,
		Subtitle: subtitles,
		General:  general,
	}
}

// filterLegacyDovi drops narrow legacy-codec video streams (embedded
// thumbnails, Dolby Vision compatibility layers) once a main stream exists.
// Files with no main stream keep every video stream: there is nothing to
// declutter around.
func filterLegacyDovi(videos []videoEntry) []Record {
	hasMain := false
	for _, v := range videos {
		if v.width >= narrowWidthLimit {
			hasMain = true
			break
		}
	}

	records := make([]Record, 0, len(videos))
	for _, v := range videos {
		if hasMain && v.legacyDovi {
			continue
		}
		records = append(records, v.record)
	}
	return records
}

// containerName resolves the display container name: the first
// comma-separated segment of the long-form name, falling back to the
// short-form name. ffmpeg's "Matroska / WebM" label is shortened to just
// "Matroska" since the extension already disambiguates.
func containerName(format gjson.Result) string {
	name, ok := strValue(format.Get("format_long_name"))
	if !ok {
		if name, ok = strValue(format.Get("format_name")); !ok {
			return NotAvailable
		}
	}
	name = strings.SplitN(name, ",", 2)[0]
	return strings.ReplaceAll(name, "Matroska / WebM", "Matroska")
}

// overallBitrate resolves the file's overall bitrate in bits per second. The
// format-level bit_rate field wins when present (even if malformed: a bad
// explicit value means unknown, not "derive a different answer"); only a
// truly absent field falls back to size-over-duration. Returns 0 for
// unknown.
func overallBitrate(format gjson.Result) int64 {
	if br := format.Get("bit_rate"); present(br) {
		n, ok := intValue(br)
		if !ok || n < 0 {
			return 0
		}
		return n
	}
	size, sok := intValue(format.Get("size"))
	duration, dok := floatValue(format.Get("duration"))
	if sok && dok && size > 0 && duration > 0 {
		return int64(float64(size*8) / duration)
	}
	return 0
}
