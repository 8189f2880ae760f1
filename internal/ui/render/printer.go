package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes status lines to an output stream.
type Printer struct {
	out    io.Writer
	styled bool
}

// New returns a printer for w. Styling is enabled only when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{out: w, styled: isTerminal(w)}
}

// Plain returns a printer that never styles its output.
func Plain(w io.Writer) *Printer {
	return &Printer{out: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Title prints a bold heading.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.out, p.style(titleStyle, text))
}

// Section prints a section heading preceded by a blank line.
func (p *Printer) Section(text string) {
	if p.styled {
		fmt.Fprintln(p.out, sectionStyle.Render(text))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", text)
}

// Success prints a message marked as done.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", p.style(readyStyle, checkMark), msg)
}

// Failure prints a message marked as failed.
func (p *Printer) Failure(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", p.style(failedStyle, crossMark), msg)
}

// Warning prints an advisory. Multi-line advisories are indented under the
// marker.
func (p *Printer) Warning(msg string) {
	lines := strings.Split(msg, "\n")
	fmt.Fprintf(p.out, "%s %s\n", p.style(warningStyle, warnMark), lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(p.out, "     %s\n", l)
	}
}

// Rows prints label/value pairs with the labels padded to a common width.
// Empty values are shown as "-".
func (p *Printer) Rows(rows [][2]string) {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "-"
		}
		label := fmt.Sprintf("%-*s", width, r[0])
		fmt.Fprintf(p.out, "  %s  %s\n", p.style(dimStyle, label), value)
	}
}
