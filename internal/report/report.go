// Package report renders the collected media summaries into a single
// self-contained HTML page: a dark-themed, searchable overview grouped
// by folder, with colour-coded pills for the facts people scan for
// first (codec, bit depth, language).
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig"

	"github.com/Xzpy909/Media-Info-Generator/internal/mediainfo"
)

//go:embed report.gohtml
var reportTemplate string

// Folder is one directory worth of scanned files, relative to the scan
// root. The root itself uses the name ".".
type Folder struct {
	Name  string
	Files []File
}

// File pairs a display name with its normalized summary.
type File struct {
	Name    string
	Summary mediainfo.Summary
}

// Root reports whether this folder is the scan root, which is rendered
// inline rather than behind a collapsible section.
func (f Folder) Root() bool { return f.Name == "." }

type fieldView struct {
	Label string
	Value string
	// Pill selects a highlight style; empty means a plain value.
	Pill string
}

type streamView struct {
	Fields []fieldView
}

type fileView struct {
	Name     string
	General  []fieldView
	Video    []streamView
	Audio    []streamView
	Subtitle []streamView
}

type folderView struct {
	Name  string
	Root  bool
	Files []fileView
}

// simplifyDepth reduces a bit-depth value to the short token shown
// inside the codec pill.
func simplifyDepth(depth string) string {
	switch {
	case strings.Contains(depth, "Lossy"), strings.Contains(depth, "Unknown"):
		return "Lossy"
	case strings.Contains(depth, "12-bit"):
		return "12-bit"
	case strings.Contains(depth, "10-bit"):
		return "10-bit"
	case strings.Contains(depth, "24-bit"):
		return "24-bit"
	case isDigits(depth):
		return depth + "-bit"
	default:
		return strings.SplitN(depth, " ", 2)[0]
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// videoPillClass picks the highlight for the combined codec pill.
// Dolby Vision outranks HDR, which outranks a lossy or unknown depth.
func videoPillClass(combined, simplified string) string {
	switch {
	case strings.Contains(combined, "Dolby Vision"):
		return "codec-dolby"
	case strings.Contains(combined, "HDR"),
		strings.Contains(combined, "10-bit"),
		strings.Contains(combined, "12-bit"):
		return "codec-hdr"
	case strings.Contains(simplified, "Lossy"):
		return "codec-lossy"
	default:
		return "codec"
	}
}

func videoStreamView(r mediainfo.Record) streamView {
	codec, _ := r.Get("Codec")
	if codec == "" {
		codec = mediainfo.NotAvailable
	}
	depth, _ := r.Get("Bit-depth")
	if depth == "" {
		depth = mediainfo.NotAvailable
	}

	simplified := simplifyDepth(depth)
	combined := codec + " " + simplified

	view := streamView{Fields: []fieldView{{
		Label: "Codec",
		Value: combined,
		Pill:  videoPillClass(combined, simplified),
	}}}
	for _, f := range r.Fields() {
		if f.Label == "Codec" || f.Label == "Bit-depth" {
			continue
		}
		view.Fields = append(view.Fields, fieldView{Label: f.Label, Value: f.Value})
	}
	return view
}

func audioStreamView(r mediainfo.Record) streamView {
	var view streamView
	for _, f := range r.Fields() {
		fv := fieldView{Label: f.Label, Value: f.Value}
		switch f.Label {
		case "Codec":
			fv.Pill = "codec"
		case "Language":
			fv.Pill = "language"
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

func subtitleStreamView(r mediainfo.Record) streamView {
	var view streamView
	for _, f := range r.Fields() {
		fv := fieldView{Label: f.Label, Value: f.Value}
		if f.Label == "Type" {
			fv.Pill = "type"
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

func buildView(folders []Folder) []folderView {
	views := make([]folderView, 0, len(folders))
	for _, folder := range folders {
		fv := folderView{Name: folder.Name, Root: folder.Root()}
		for _, file := range folder.Files {
			item := fileView{Name: file.Name}
			for _, f := range file.Summary.General.Fields() {
				item.General = append(item.General, fieldView{Label: f.Label, Value: f.Value})
			}
			for _, r := range file.Summary.Video {
				item.Video = append(item.Video, videoStreamView(r))
			}
			for _, r := range file.Summary.Audio {
				item.Audio = append(item.Audio, audioStreamView(r))
			}
			for _, r := range file.Summary.Subtitle {
				item.Subtitle = append(item.Subtitle, subtitleStreamView(r))
			}
			fv.Files = append(fv.Files, item)
		}
		views = append(views, fv)
	}
	return views
}

// Render produces the full HTML page for the given folders. Folder and
// file order is preserved as given.
func Render(folders []Folder) ([]byte, error) {
	tmpl, err := template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Folders []folderView }{buildView(folders)}); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAtomic writes data to path via a temporary file and rename, so
// a browser refresh never sees a half-written report.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return fmt.Errorf("creating temporary report: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing report: %w", err)
	}
	return nil
}
