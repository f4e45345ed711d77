// Package ui prints user facing messages and download progress.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Printer writes colored status lines. Colors are dropped when the target
// is not a terminal or NO_COLOR is set.
type Printer struct {
	out     io.Writer
	err     io.Writer
	noColor bool
}

// NewPrinter creates a Printer writing normal output to out and errors to errOut.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		out:     out,
		err:     errOut,
		noColor: color.NoColor || !IsTerminal(out),
	}
}

// Out returns the writer used for normal output.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Info(format string, args ...any) {
	p.print(p.out, color.FgCyan, format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.print(p.out, color.FgGreen, format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.print(p.out, color.FgYellow, format, args...)
}

// Muted prints secondary detail lines.
func (p *Printer) Muted(format string, args ...any) {
	p.print(p.out, color.FgHiBlack, format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.print(p.err, color.FgRed, format, args...)
}

func (p *Printer) print(w io.Writer, attr color.Attribute, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.noColor {
		fmt.Fprintln(w, msg)
		return
	}
	c := color.New(attr)
	if attr == color.FgRed {
		c.Add(color.Bold)
	}
	c.EnableColor()
	fmt.Fprintln(w, c.Sprint(msg))
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
