package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// CaseBar shows how far a vector run has got and how many cases failed
type CaseBar struct {
	total      int
	done       int
	failed     int
	startTime  time.Time
	lastUpdate time.Time
	output     io.Writer
	enabled    bool
	width      int
}

// NewCaseBar creates a progress bar for total cases writing to w
func NewCaseBar(w io.Writer, total int) *CaseBar {
	return &CaseBar{
		total:     total,
		startTime: time.Now(),
		output:    w,
		enabled:   true,
		width:     30,
	}
}

// Disable disables the progress bar
func (p *CaseBar) Disable() {
	p.enabled = false
}

// Record counts one finished case
func (p *CaseBar) Record(pass bool) {
	p.done++
	if !pass {
		p.failed++
	}
	p.render()
}

// render redraws the bar, at most every 100ms except for the last case
func (p *CaseBar) render() {
	if !p.enabled {
		return
	}
	now := time.Now()
	if now.Sub(p.lastUpdate) < 100*time.Millisecond && p.done < p.total {
		return
	}
	p.lastUpdate = now

	filled := 0
	if p.total > 0 {
		filled = p.width * p.done / p.total
	}
	if filled > p.width {
		filled = p.width
	}
	bar := strings.Repeat("=", filled)
	if filled < p.width {
		bar += ">" + strings.Repeat("-", p.width-filled-1)
	}

	fmt.Fprintf(p.output, "\rCases [%s] %d/%d | failed: %d | %s",
		bar, p.done, p.total, p.failed, formatDuration(time.Since(p.startTime)))
}

// Finish ends the progress line
func (p *CaseBar) Finish() {
	if !p.enabled {
		return
	}
	p.lastUpdate = time.Time{}
	p.render()
	fmt.Fprint(p.output, "\n")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
