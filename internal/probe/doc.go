// Package probe runs ffprobe against a media file and exposes the raw JSON
// output as a loosely-typed tree.
//
// ffprobe output is deliberately not unmarshalled into rigid structs: any
// field may be absent, null, an empty string, or carry an unexpected type
// (numbers arrive as strings for some containers and as JSON numbers for
// others). The normalization layer needs to distinguish "present" from
// "absent" per field, so the tree is exposed as gjson values instead.
package probe
