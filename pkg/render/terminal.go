package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// Terminal renders reports for an ANSI terminal of a given width.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Width returns the width lines are truncated to.
func (t *Terminal) Width() int {
	return t.width
}

// Render formats the summary line followed by the report lines.
func (t *Terminal) Render(r *report.Report, m Meta) string {
	return t.Summary(r, m) + "\n" + t.Body(r)
}

// Body formats the report lines without the summary.
func (t *Terminal) Body(r *report.Report) string {
	var sb strings.Builder
	for _, l := range r.Lines {
		if !visible(l) {
			continue
		}
		sb.WriteString(t.Line(l.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderRaw formats raw command output under a header.
func (t *Terminal) RenderRaw(buf *output.Buffer, m Meta) string {
	header := t.title.String(m.Job) + " · raw output"
	return t.theme.Header.Render(header) + "\n" + t.RawBody(buf)
}

// RawBody formats raw command output without a header.
func (t *Terminal) RawBody(buf *output.Buffer) string {
	var sb strings.Builder
	for _, l := range buf.Lines {
		sb.WriteString(t.Line(l.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns the one-line header of a report.
func (t *Terminal) Summary(r *report.Report, m Meta) string {
	s := r.Stats
	parts := []string{t.theme.Header.Render(t.title.String(m.Job))}
	if s.Errors > 0 {
		parts = append(parts, t.theme.Error.Render(fmt.Sprintf("%s %s", t.theme.Icons.Error, count(s.Errors, "error"))))
	}
	if s.TestFails > 0 {
		parts = append(parts, t.theme.Test.Render(fmt.Sprintf("%s %s", t.theme.Icons.Test, count(s.TestFails, "failed test"))))
	}
	if s.Warnings > 0 {
		parts = append(parts, t.theme.Warning.Render(fmt.Sprintf("%s %s", t.theme.Icons.Warn, count(s.Warnings, "warning"))))
	}
	if s.PassedTests > 0 {
		parts = append(parts, t.theme.Success.Render(fmt.Sprintf("%s %d passed", t.theme.Icons.Pass, s.PassedTests)))
	}
	if m.ExitCode == 0 && s.Items() == 0 && r.IsSuccess(m.AllowWarnings, m.AllowFailures) {
		parts = append(parts, t.theme.Success.Render(t.theme.Icons.Pass+" all clear"))
	}
	if r.DismissedItems > 0 {
		parts = append(parts, t.theme.Muted.Render(fmt.Sprintf("%d dismissed", r.DismissedItems)))
	}
	if m.ExitCode != 0 {
		parts = append(parts, t.theme.Muted.Render(fmt.Sprintf("exit %d", m.ExitCode)))
	}
	if m.Duration > 0 {
		parts = append(parts, t.theme.Muted.Render(m.Duration.Round(time.Millisecond).String()))
	}
	return strings.Join(parts, "  ")
}

func count(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}
	return fmt.Sprintf("%d %ss", n, what)
}

// Line renders one styled line, truncated to the terminal width.
func (t *Terminal) Line(l tty.Line) string {
	l = Truncate(l, t.width)
	if t.theme.StripTool {
		return l.Raw()
	}
	return l.String()
}

// Truncate cuts a line to width display cells, ending it with an ellipsis
// when something was cut. Styles of the kept spans are preserved.
func Truncate(l tty.Line, width int) tty.Line {
	if width <= 0 || runewidth.StringWidth(l.Raw()) <= width {
		return l
	}
	limit := width - 1
	var out tty.Line
	used := 0
	for _, s := range l.Spans {
		w := runewidth.StringWidth(s.Text)
		if used+w <= limit {
			out.Spans = append(out.Spans, s)
			used += w
			continue
		}
		var b strings.Builder
		for _, r := range s.Text {
			rw := runewidth.RuneWidth(r)
			if used+rw > limit {
				break
			}
			b.WriteRune(r)
			used += rw
		}
		out.Spans = append(out.Spans, tty.NewSpan(s.Style, b.String()+"…"))
		return out
	}
	return out
}
