// Package ui prints the tap's human-facing output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes marked, optionally colored lines to one writer.
type Printer struct {
	out io.Writer

	bold   *color.Color
	dim    *color.Color
	green  *color.Color
	cyan   *color.Color
	yellow *color.Color
	red    *color.Color
}

// New returns a Printer writing to out. With noColor set no escape sequences
// are written, whatever the terminal.
func New(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		bold:   color.New(color.Bold),
		dim:    color.New(color.Faint),
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{p.bold, p.dim, p.green, p.cyan, p.yellow, p.red} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Info prints an informational message with a cyan arrow.
func (p *Printer) Info(format string, args ...interface{}) {
	p.mark(p.cyan, "→", format, args...)
}

// Success prints a success message with a green checkmark.
func (p *Printer) Success(format string, args ...interface{}) {
	p.mark(p.green, "✓", format, args...)
}

// Fail prints an error message with a red X.
func (p *Printer) Fail(format string, args ...interface{}) {
	p.mark(p.red, "✗", format, args...)
}

// Warn prints a warning message with a yellow circle.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.mark(p.yellow, "○", format, args...)
}

// Title prints a bold heading.
func (p *Printer) Title(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.bold.Sprintf(format, args...))
}

// Field prints an aligned "key: value" line.
func (p *Printer) Field(key, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", p.dim.Sprintf("%-10s", key+":"), value)
}

// Dim prints a dimmed, indented message.
func (p *Printer) Dim(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s\n", p.dim.Sprintf(format, args...))
}

// Block prints each line of text indented by four spaces.
func (p *Printer) Block(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(p.out, "    %s\n", line)
	}
}

// BlankLine prints a blank line.
func (p *Printer) BlankLine() {
	fmt.Fprintln(p.out)
}

func (p *Printer) mark(c *color.Color, symbol, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s %s\n", c.Sprint(symbol), fmt.Sprintf(format, args...))
}
