package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const progressWidth = 40

// Progress draws a single-line progress bar. It is safe for concurrent
// use by the probe workers. When disabled (output is not a terminal)
// every method is a no-op, so log lines stay clean in pipes and files.
type Progress struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	current int
	enabled bool
}

// NewProgress creates a bar for total items writing to out.
func NewProgress(out io.Writer, total int, enabled bool) *Progress {
	return &Progress{out: out, total: total, enabled: enabled && total > 0}
}

// Increment advances the bar by one item and redraws it.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	if p.current < p.total {
		p.current++
	}
	p.draw()
}

// Finish forces the bar to 100% and moves to the next line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.out)
}

func (p *Progress) draw() {
	ratio := float64(p.current) / float64(p.total)
	filled := int(progressWidth * ratio)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	fmt.Fprintf(p.out, "\rScanning files: [%s] %d%% (%d/%d)",
		bar, int(ratio*100), p.current, p.total)
}
