package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const barWidth = 24

// Progress renders a one-line progress bar for a bake run.
type Progress struct {
	start     time.Time
	out       io.Writer
	unit      string
	total     int
	completed int
	failed    int
	mu        sync.Mutex
	enabled   bool
}

// NewProgress creates a progress tracker that counts items named unit
// (for example "gradients"). When enabled is false nothing is printed but
// Summary still works.
func NewProgress(total int, unit string, enabled bool) *Progress {
	if unit == "" {
		unit = "items"
	}
	return &Progress{
		start:   time.Now(),
		out:     os.Stderr,
		unit:    unit,
		total:   total,
		enabled: enabled,
	}
}

// SetOutput redirects the progress line.
func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	p.out = w
	p.mu.Unlock()
}

// Update records progress. It matches ProgressFunc.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed, p.total, p.failed = completed, total, failed
	if p.enabled {
		fmt.Fprint(p.out, "\r"+p.lineLocked())
	}
}

// Callback returns a ProgressFunc for Config.OnProgress.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Line returns the current progress line without printing it.
func (p *Progress) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lineLocked()
}

func (p *Progress) lineLocked() string {
	elapsed := time.Since(p.start)
	rate := perSecond(p.completed, elapsed)

	filled := 0
	if p.total > 0 {
		filled = p.completed * barWidth / p.total
	}
	if filled > barWidth {
		filled = barWidth
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s%s] %d/%d %s",
		strings.Repeat("=", filled), strings.Repeat(" ", barWidth-filled),
		p.completed, p.total, p.unit)
	if p.failed > 0 {
		fmt.Fprintf(&sb, " (%d failed)", p.failed)
	}
	fmt.Fprintf(&sb, " %.1f %s/sec", rate, p.unit)

	switch {
	case p.completed >= p.total:
		fmt.Fprintf(&sb, " done in %s", formatDuration(elapsed))
	case rate > 0:
		eta := time.Duration(float64(p.total-p.completed) / rate * float64(time.Second))
		fmt.Fprintf(&sb, " ETA: %s", formatDuration(eta))
	}
	return sb.String()
}

// Done terminates the progress line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		fmt.Fprintln(p.out, "\r"+p.lineLocked())
	}
}

// Summary describes the finished run.
func (p *Progress) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start)
	return fmt.Sprintf("Baked %d/%d %s (%d failed) in %s",
		p.completed-p.failed, p.total, p.unit, p.failed, formatDuration(elapsed))
}

func perSecond(n int, d time.Duration) float64 {
	if n == 0 || d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
