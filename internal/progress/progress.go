// Package progress reports probe progress while a run validates streams.
//
// On a terminal it redraws a single-line bar per phase. Otherwise, such as
// under a service manager or in CI logs, it writes a log line every 10%.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/validator"
)

// Mode selects how progress is shown.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeBar  Mode = "bar"
	ModeLog  Mode = "log"
	ModeOff  Mode = "off"
)

const (
	defaultWidth = 80
	minBarWidth  = 10
	maxBarWidth  = 50
)

// ParseMode converts a setting to a Mode, falling back to ModeAuto.
func ParseMode(value string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeBar:
		return ModeBar
	case ModeLog:
		return ModeLog
	case ModeOff, "false", "none":
		return ModeOff
	default:
		return ModeAuto
	}
}

// Reporter renders validator events.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	bar    bool
	off    bool
	width  int
	logged map[string]int64
}

// New returns a Reporter writing to f. In ModeAuto the bar is used only when
// f is a terminal.
func New(f *os.File, mode Mode) *Reporter {
	r := &Reporter{out: f, width: defaultWidth, logged: make(map[string]int64)}

	switch mode {
	case ModeOff:
		r.off = true
	case ModeBar:
		r.bar = true
	case ModeLog:
	default:
		r.bar = term.IsTerminal(int(f.Fd()))
	}

	if r.bar {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			r.width = cols
		}
	}
	return r
}

// NewWriter returns a Reporter over any writer, drawing a bar of the given
// terminal width when bar is true.
func NewWriter(w io.Writer, bar bool, width int) *Reporter {
	if width <= 0 {
		width = defaultWidth
	}
	return &Reporter{out: w, bar: bar, width: width, logged: make(map[string]int64)}
}

// Consume handles events until the channel is closed.
func (r *Reporter) Consume(events <-chan validator.Event) {
	for ev := range events {
		r.Handle(ev)
	}
}

// Handle renders one event.
func (r *Reporter) Handle(ev validator.Event) {
	if r.off || ev.Total <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar {
		r.drawBar(ev)
		return
	}

	// Log at each 10% step crossed, and once at completion.
	step := ev.Completed * 10 / ev.Total
	if step > r.logged[ev.Phase] || (ev.Completed == ev.Total && r.logged[ev.Phase] < 10) {
		r.logged[ev.Phase] = step
		logging.Info("%s: %d/%d (%d%%)", label(ev.Phase), ev.Completed, ev.Total, ev.Completed*100/ev.Total)
	}
}

func (r *Reporter) drawBar(ev validator.Event) {
	title := label(ev.Phase)
	counts := fmt.Sprintf("%d/%d", ev.Completed, ev.Total)

	barWidth := r.width - len([]rune(title)) - len(counts) - 5
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	filled := int(ev.Completed * int64(barWidth) / ev.Total)
	fmt.Fprintf(r.out, "\r%s |%s%s| %s", title,
		strings.Repeat("#", filled), strings.Repeat(" ", barWidth-filled), counts)
	if ev.Completed >= ev.Total {
		fmt.Fprintln(r.out)
	}
}

func label(phase string) string {
	switch phase {
	case metrics.PhaseAvailability:
		return "Validating streams"
	case metrics.PhaseLatency:
		return "Measuring latency"
	default:
		return phase
	}
}
