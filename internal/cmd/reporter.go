package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/releasegate/internal/checks"
)

// consoleReporter prints per-check status lines as the gate runs:
// "<label>: ok" for passes, the diagnostic lines for failures, and the raw
// counts for informational checks.
type consoleReporter struct {
	out         io.Writer
	colorOutput bool
	green       *color.Color
	red         *color.Color
}

// newConsoleReporter creates a reporter writing to out. Color is enabled
// only when out is a terminal.
func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{
		out:         out,
		colorOutput: writerIsTerminal(out),
		green:       color.New(color.FgGreen),
		red:         color.New(color.FgRed),
	}
}

// writerIsTerminal reports whether out is a TTY that should get color.
func writerIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *consoleReporter) CheckStarted(label string) {
	fmt.Fprintf(r.out, "%s: ", label)
}

func (r *consoleReporter) CheckCompleted(res *checks.Result) {
	switch {
	case res.Informational:
		fmt.Fprintln(r.out, strings.Join(res.Details, "; "))
	case res.Passed:
		fmt.Fprintln(r.out, r.paint(r.green, "ok"))
	default:
		fmt.Fprintln(r.out)
		for _, line := range res.Details {
			fmt.Fprintln(r.out, r.paint(r.red, line))
		}
	}
}

// Summary prints the final verdict line.
func (r *consoleReporter) Summary(ready bool) {
	if ready {
		fmt.Fprintln(r.out, r.paint(r.green, "Congratulations, the repository is release ready!"))
	} else {
		fmt.Fprintln(r.out, r.paint(r.red, "The repository is not release ready. See errors above."))
	}
}

// paint colors s when color output is enabled.
func (r *consoleReporter) paint(c *color.Color, s string) string {
	if !r.colorOutput {
		return s
	}
	return c.Sprint(s)
}
