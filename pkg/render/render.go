// Package render turns reports and raw output into text for the terminal,
// for plain logs and for automation.
package render

import (
	"time"

	"github.com/dkoosis/fowatch/pkg/report"
)

// Meta is what a renderer knows about the run besides its report.
type Meta struct {
	Job           string
	ExitCode      int
	Duration      time.Duration
	AllowWarnings bool
	AllowFailures bool
}

// Renderer formats a report.
type Renderer interface {
	Render(r *report.Report, m Meta) string
}

// visible reports whether a line is shown in the report view. Passed test
// results are only counted in the summary.
func visible(l report.Line) bool {
	return !(l.ItemIdx == 0 && l.Type.Class == report.ClassTestResult && l.Type.Passed)
}

// PreferRaw reports whether the raw output says more than the report: the
// command failed yet nothing was recognized as an error or a failed test.
func PreferRaw(r *report.Report, exitCode int) bool {
	return exitCode != 0 && r.Stats.Errors == 0 && r.Stats.TestFails == 0
}
