package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/fowatch/pkg/report"
)

// Plain renders a report as text without escape sequences, for logs and
// pipes.
type Plain struct{}

// NewPlain creates a plain renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats the report.
func (p *Plain) Render(r *report.Report, m Meta) string {
	var sb strings.Builder
	s := r.Stats
	status := "ok"
	if !r.IsSuccess(m.AllowWarnings, m.AllowFailures) || PreferRaw(r, m.ExitCode) {
		status = "failed"
	}
	fmt.Fprintf(&sb, "%s: %s (errors=%d warnings=%d test_fails=%d passed=%d exit=%d)\n",
		m.Job, status, s.Errors, s.Warnings, s.TestFails, s.PassedTests, m.ExitCode)
	prev := -1
	for _, l := range r.Lines {
		if !visible(l) {
			continue
		}
		if l.ItemIdx != prev && l.ItemIdx > 0 && prev >= 0 {
			sb.WriteString("\n")
		}
		prev = l.ItemIdx
		sb.WriteString(l.Content.Raw())
		sb.WriteString("\n")
	}
	if r.SuggestBacktrace {
		sb.WriteString("hint: rerun with RUST_BACKTRACE=1 for a backtrace\n")
	}
	return sb.String()
}
