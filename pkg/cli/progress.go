package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"cytosight/csvexport/pkg/export"
)

const barWidth = 40

// SimpleProgress renders export progress as a single redrawn line. It
// implements export.Task.
type SimpleProgress struct {
	mu          sync.Mutex
	writer      io.Writer
	description string
	fraction    float64
	started     time.Time
	finished    bool
}

// NewProgressReporter creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// SetRunning starts the clock.
func (p *SimpleProgress) SetRunning() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.fraction = 0
	p.finished = false
	p.render()
}

// SetProgressDescription sets the label shown before the bar.
func (p *SimpleProgress) SetProgressDescription(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.description = description
}

// SetProgress updates the completed fraction, clamped to [0, 1].
func (p *SimpleProgress) SetProgress(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fraction = min(max(fraction, 0), 1)
	p.render()
}

// SetFinished ends the line.
func (p *SimpleProgress) SetFinished() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	p.finished = true
	p.fraction = 1
	p.render()
	fmt.Fprintln(p.writer)
}

// Error ends the line with err.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *SimpleProgress) render() {
	filled := int(float64(barWidth) * p.fraction)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	label := p.description
	if label == "" {
		label = "Progress"
	}
	fmt.Fprintf(p.writer, "\r%s: [%s] %5.1f%% %s",
		label, bar, p.fraction*100, time.Since(p.started).Round(time.Millisecond))
}

var _ export.Task = (*SimpleProgress)(nil)
