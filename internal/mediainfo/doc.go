// Package mediainfo normalizes raw ffprobe output into display-ready,
// per-file summaries: container info, duration, per-stream codec, bitrate,
// resolution, bit depth, and HDR / Dolby Vision classification.
//
// Every function in this package is total: malformed or missing input is
// resolved to a documented sentinel ("N/A", "Unknown / Lossy") or to an
// explicit absent marker, never to an error or panic. The package performs
// no I/O and keeps no state between calls, so [Summarize] is safe to invoke
// concurrently on independent probe results.
package mediainfo
