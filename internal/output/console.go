package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	boldStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// ConsoleSink writes matches to out and errors to errOut, one per line.
type ConsoleSink struct {
	out    io.Writer
	errOut io.Writer
	stats  Statistics
	styled bool
}

// NewConsoleSink creates a console sink. Styling is applied only when out is
// a terminal.
func NewConsoleSink(out, errOut io.Writer) *ConsoleSink {
	return &ConsoleSink{
		out:    out,
		errOut: errOut,
		styled: isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *ConsoleSink) style(s lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return s.Render(text)
}

func (c *ConsoleSink) Announce(params []Param) error {
	for i, p := range params {
		var line string
		if i == 0 {
			line = fmt.Sprintf("%s is %s", p.Key, c.style(boldStyle, p.Value))
		} else {
			line = fmt.Sprintf("%s: %s", c.style(labelStyle, p.Key), p.Value)
		}
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return wrapWrite(err)
		}
	}
	return nil
}

func (c *ConsoleSink) Match(msg string) error {
	_, err := fmt.Fprintln(c.out, msg)
	return wrapWrite(err)
}

func (c *ConsoleSink) MatchCounted(msg string) error {
	if err := c.Match(msg); err != nil {
		return err
	}
	c.stats.hit()
	return nil
}

func (c *ConsoleSink) Error(msg string) error {
	c.stats.fail()
	_, err := fmt.Fprintln(c.errOut, c.style(errorStyle, msg))
	return wrapWrite(err)
}

func (c *ConsoleSink) Finish() error {
	_, err := fmt.Fprintf(c.out, "%s: %d\n%s: %d\n",
		c.style(labelStyle, "Hits"), c.stats.Hits,
		c.style(labelStyle, "Errors"), c.stats.Errors)
	return wrapWrite(err)
}

func (c *ConsoleSink) Stats() Statistics {
	return c.stats
}

func (c *ConsoleSink) Close() error {
	return nil
}
