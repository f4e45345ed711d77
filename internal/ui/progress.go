package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/prodbyeagle/eagle/internal/binary"
)

// BarWidth is the number of cells in the progress bar.
const BarWidth = 28

// Progress draws a single, carriage-return refreshed progress line.
// Draw runs on the caller's goroutine, between reads. Downloads start no
// background work, so there is no render ticker.
type Progress struct {
	w io.Writer
}

// NewProgress creates a Progress writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Draw implements binary.Progress.
func (p *Progress) Draw(done, total int64) {
	fmt.Fprint(p.w, "\r"+ProgressLine(done, total))
}

// Done implements binary.Progress.
func (p *Progress) Done(done, total int64) {
	p.Draw(done, total)
	fmt.Fprintln(p.w)
}

type silentProgress struct{}

func (silentProgress) Draw(int64, int64) {}
func (silentProgress) Done(int64, int64) {}

// ProgressFactory returns renderers writing to w, or silent ones when w is
// not a terminal.
func ProgressFactory(w io.Writer) binary.ProgressFactory {
	if !IsTerminal(w) {
		return func() binary.Progress { return silentProgress{} }
	}
	return func() binary.Progress { return NewProgress(w) }
}

// ProgressLine renders the progress text for done bytes out of total. A
// non-positive total renders a plain byte counter.
func ProgressLine(done, total int64) string {
	if total <= 0 {
		return "Downloading... " + FormatBytes(done)
	}

	pct := math.Min(float64(done)/float64(total), 1)
	filled := min(int(math.Round(pct*BarWidth)), BarWidth)

	return fmt.Sprintf("[%s%s] %3d%% %s/%s",
		strings.Repeat("#", filled),
		strings.Repeat(".", BarWidth-filled),
		int(math.Round(pct*100)),
		FormatBytes(done),
		FormatBytes(total),
	)
}

// FormatBytes formats n with a binary unit and one decimal, e.g. "1.5MiB".
func FormatBytes(n int64) string {
	const (
		kib = 1024.0
		mib = kib * 1024
		gib = mib * 1024
	)

	f := float64(n)
	switch {
	case f >= gib:
		return fmt.Sprintf("%.1fGiB", f/gib)
	case f >= mib:
		return fmt.Sprintf("%.1fMiB", f/mib)
	case f >= kib:
		return fmt.Sprintf("%.1fKiB", f/kib)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
