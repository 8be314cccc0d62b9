// Package analysis turns the lines of a command run into a report.
//
// Each supported tool has a recognizer that classifies lines, possibly
// consulting a little state of its own such as the last path seen. The
// classified lines feed an Accumulator that groups them into items. An
// Analyzer ties both together behind Start, ReceiveLine and BuildReport.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// ErrReportBuilt is returned when BuildReport is called twice in one run.
var ErrReportBuilt = errors.New("report already built for this run")

// LineAnalysis is the verdict for one line before grouping.
// Key names the test a TestResult or Title(TestFail) line refers to.
type LineAnalysis struct {
	Type report.LineType
	Key  string
}

// Analysis helpers for the common verdicts.
func normal() LineAnalysis { return LineAnalysis{Type: report.Normal} }
func garbage() LineAnalysis { return LineAnalysis{Type: report.Garbage} }
func sectionEnd() LineAnalysis { return LineAnalysis{Type: report.SectionEnd} }
func location() LineAnalysis { return LineAnalysis{Type: report.LocationLine} }
func title(k report.Kind) LineAnalysis { return LineAnalysis{Type: report.Title(k)} }
func testFail(key string) LineAnalysis { return LineAnalysis{Type: report.Title(report.KindTestFail), Key: key} }
func result(key string, p bool) LineAnalysis { return LineAnalysis{Type: report.TestResult(p), Key: key} }

// Mission is the per-run configuration an analyzer consults.
type Mission struct {
	Job      string
	Analyzer Kind
	Ignore   *IgnoreFilter
}

// Analyzer builds a report from the lines of one run.
//
// ReceiveLine appends every line it keeps to raw, which holds the verbatim
// output regardless of how lines end up classified. BuildReport may be
// called once, after the run ends.
type Analyzer interface {
	Start(m Mission)
	ReceiveLine(l output.Line, raw *output.Buffer)
	BuildReport() (*report.Report, error)
}

// classified is a line ready for the accumulator. Recognizers may emit
// lines they synthesize, such as a location split off a title.
type classified struct {
	LineAnalysis
	Content   tty.Line
	ungrouped bool
}

func emit(a LineAnalysis, content tty.Line) []classified {
	return []classified{{LineAnalysis: a, Content: content}}
}

// recognizer classifies the lines of one run in order.
type recognizer interface {
	recognize(l output.Line) []classified
}

// finisher is implemented by recognizers holding lines until the end.
type finisher interface {
	finish() []classified
}

type lineAnalyzer struct {
	kind    Kind
	mission Mission
	lines   []output.Line
	built   bool
	fresh   func() recognizer
}

// New returns the analyzer for kind.
func New(kind Kind) Analyzer {
	return &lineAnalyzer{kind: kind, fresh: recognizerFactory(kind)}
}

func recognizerFactory(kind Kind) func() recognizer {
	switch kind {
	case KindCargoJSON:
		return func() recognizer { return &cargoJSONRecognizer{} }
	case KindNextest:
		return func() recognizer { return &nextestRecognizer{} }
	case KindNextestJSON:
		return func() recognizer { return &nextestJSONRecognizer{} }
	case KindEslint:
		return func() recognizer { return &eslintRecognizer{} }
	case KindBiome:
		return func() recognizer { return &biomeRecognizer{} }
	case KindGo:
		return func() recognizer { return &goRecognizer{} }
	case KindGoJSON:
		return func() recognizer { return newGoJSONRecognizer() }
	case KindPytest:
		return func() recognizer { return &pytestRecognizer{} }
	case KindUnittest:
		return func() recognizer { return &unittestRecognizer{} }
	case KindRuff:
		return func() recognizer { return &ruffRecognizer{} }
	case KindSwiftBuild:
		return func() recognizer { return &diagRecognizer{grammar: swiftBuildGrammar} }
	case KindSwiftLint:
		return func() recognizer { return &diagRecognizer{grammar: swiftLintGrammar} }
	case KindCpp:
		return func() recognizer { return &diagRecognizer{grammar: cppGrammar} }
	default:
		return func() recognizer { return standardRecognizer{} }
	}
}

func (a *lineAnalyzer) Start(m Mission) {
	a.mission = m
	a.lines = nil
	a.built = false
}

func (a *lineAnalyzer) ReceiveLine(l output.Line, raw *output.Buffer) {
	if a.mission.Ignore.Matches(l.Content.Raw()) {
		return
	}
	a.lines = append(a.lines, l)
	if raw != nil {
		raw.Push(l)
	}
}

func (a *lineAnalyzer) BuildReport() (*report.Report, error) {
	if a.built {
		return nil, fmt.Errorf("%s: %w", a.kind, ErrReportBuilt)
	}
	a.built = true
	rec := a.fresh()
	acc := NewAccumulator()
	for _, l := range a.lines {
		acc.feedAll(rec.recognize(l))
	}
	if f, ok := rec.(finisher); ok {
		acc.feedAll(f.finish())
	}
	a.lines = nil
	r := acc.Report()
	slog.Debug("report built",
		"analyzer", a.kind.String(),
		"job", a.mission.Job,
		"lines", len(r.Lines),
		"errors", r.Stats.Errors,
		"warnings", r.Stats.Warnings,
		"test_fails", r.Stats.TestFails)
	return r, nil
}

// warn logs an inconsistent state met while classifying.
func warn(kind Kind, msg string, content tty.Line) {
	slog.Warn(msg, "analyzer", kind.String(), "line", content.Raw())
}

// synthLocation builds a location line "path:line[:col]".
func synthLocation(path, line, col string) tty.Line {
	var b strings.Builder
	b.WriteString(path)
	if line != "" {
		b.WriteString(":" + line)
		if col != "" {
			b.WriteString(":" + col)
		}
	}
	return tty.Plain(b.String())
}
