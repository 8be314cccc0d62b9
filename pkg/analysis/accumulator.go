package analysis

import (
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// Style keys of the lines the accumulator synthesizes.
const (
	csiBoldRed    = "\x1b[1m\x1b[38;5;9m"
	csiBoldYellow = "\x1b[1m\x1b[33m"
)

type bucket int

const (
	bucketNone bucket = iota
	bucketErrors
	bucketTests
	bucketWarnings
)

type testBlock struct {
	key   string
	lines []report.Line
}

type testEntry struct {
	passed    bool
	hasResult bool
	block     *testBlock
}

// Accumulator groups classified lines into items.
//
// Items are kept in three buckets (errors, test failures, warnings) and
// emitted in that order whatever the arrival order. Lines arriving while no
// item is open are dropped, except those pushed as ungrouped, which lead the
// report with item index 0.
type Accumulator struct {
	ungrouped []report.Line
	errors    []report.Line
	warnings  []report.Line
	tests     []*testBlock
	entries   map[string]*testEntry

	cur    bucket
	block  *testBlock
	hasLoc bool
	last   report.Location

	suggestBacktrace bool
	failureKeys      []string
	failed           map[string]bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		entries: make(map[string]*testEntry),
		failed:  make(map[string]bool),
	}
}

func (a *Accumulator) entry(key string) *testEntry {
	e, ok := a.entries[key]
	if !ok {
		e = &testEntry{}
		a.entries[key] = e
	}
	return e
}

func (a *Accumulator) addFailureKey(key string) {
	if a.failed[key] {
		return
	}
	a.failed[key] = true
	a.failureKeys = append(a.failureKeys, key)
}

// StartItem opens a new item whose first line is content. A Sum title is
// kept ungrouped and closes any open item: the lines that follow it are
// dropped until the next item.
func (a *Accumulator) StartItem(kind report.Kind, content tty.Line) {
	a.CloseItem()
	line := report.Line{Type: report.Title(kind), Content: content}
	switch kind {
	case report.KindSum:
		a.ungrouped = append(a.ungrouped, line)
		return
	case report.KindError:
		a.cur = bucketErrors
		a.errors = append(a.errors, line)
	case report.KindWarning:
		a.cur = bucketWarnings
		a.warnings = append(a.warnings, line)
	default:
		b := &testBlock{lines: []report.Line{line}}
		a.tests = append(a.tests, b)
		a.block = b
		a.cur = bucketTests
	}
}

// PushLine appends a line to the open item. It is dropped when no item is
// open.
func (a *Accumulator) PushLine(t report.LineType, content tty.Line) {
	line := report.Line{Type: t, Content: content}
	switch a.cur {
	case bucketErrors:
		a.errors = append(a.errors, line)
	case bucketWarnings:
		a.warnings = append(a.warnings, line)
	case bucketTests:
		a.block.lines = append(a.block.lines, line)
	}
}

// PushLocation appends a location line unless it repeats the path and line
// of the previous location of the same item.
func (a *Accumulator) PushLocation(content tty.Line) {
	if a.cur == bucketNone {
		return
	}
	line := report.Line{Type: report.LocationLine, Content: content}
	if loc, ok := line.Location(); ok {
		if a.hasLoc && loc.Path == a.last.Path && loc.Line == a.last.Line {
			return
		}
		a.hasLoc = true
		a.last = loc
	}
	a.PushLine(report.LocationLine, content)
}

// PushUngrouped keeps a line outside of any item. The open item, if any,
// is closed.
func (a *Accumulator) PushUngrouped(t report.LineType, content tty.Line) {
	a.CloseItem()
	a.ungrouped = append(a.ungrouped, report.Line{Type: t, Content: content})
}

// CloseItem ends the open item.
func (a *Accumulator) CloseItem() {
	a.cur = bucketNone
	a.block = nil
	a.hasLoc = false
}

// StartTestFailure opens the failure block of the test key. When the test
// already has a block, content is appended to it as a normal line and the
// block is reopened.
func (a *Accumulator) StartTestFailure(key string, content tty.Line) {
	a.CloseItem()
	e := a.entry(key)
	a.addFailureKey(key)
	if e.block != nil {
		a.block = e.block
		a.cur = bucketTests
		a.PushLine(report.Normal, content)
		return
	}
	e.block = &testBlock{key: key, lines: []report.Line{{Type: report.Title(report.KindTestFail), Content: content}}}
	a.tests = append(a.tests, e.block)
	a.block = e.block
	a.cur = bucketTests
}

// RecordTestResult records the outcome of the test key. The first outcome
// recorded for a key wins and only its line is kept.
func (a *Accumulator) RecordTestResult(key string, passed bool, content tty.Line) {
	e := a.entry(key)
	if e.hasResult {
		a.CloseItem()
		return
	}
	e.hasResult = true
	e.passed = passed
	if !passed {
		a.addFailureKey(key)
	}
	a.PushUngrouped(report.TestResult(passed), content)
}

// SuggestBacktrace marks the report as suggesting a rerun with backtraces.
func (a *Accumulator) SuggestBacktrace() {
	a.suggestBacktrace = true
}

// Feed routes one classified line.
func (a *Accumulator) Feed(la LineAnalysis, content tty.Line) {
	t := la.Type
	switch t.Class {
	case report.ClassGarbage:
	case report.ClassTitle:
		if t.Kind == report.KindTestFail && la.Key != "" {
			a.StartTestFailure(la.Key, content)
			return
		}
		a.StartItem(t.Kind, content)
	case report.ClassTestResult:
		if la.Key == "" {
			a.PushUngrouped(t, content)
			return
		}
		a.RecordTestResult(la.Key, t.Passed, content)
	case report.ClassSectionEnd:
		a.CloseItem()
	case report.ClassBacktraceSuggestion:
		a.SuggestBacktrace()
		a.PushLine(t, content)
	case report.ClassLocation:
		a.PushLocation(content)
	default:
		a.PushLine(t, content)
	}
}

func (a *Accumulator) feedAll(cs []classified) {
	for _, c := range cs {
		if c.ungrouped {
			a.PushUngrouped(c.Type, c.Content)
			continue
		}
		a.Feed(c.LineAnalysis, c.Content)
	}
}

// FailureKeys returns the keys of failed tests in the order they were met.
func (a *Accumulator) FailureKeys() []string {
	return append([]string(nil), a.failureKeys...)
}

// Lines returns the ordered lines with item indexes assigned. Failed tests
// that never got a block get one saying so.
func (a *Accumulator) Lines() []report.Line {
	n := len(a.ungrouped) + len(a.errors) + len(a.warnings)
	for _, b := range a.tests {
		n += len(b.lines)
	}
	lines := make([]report.Line, 0, n)
	lines = append(lines, a.ungrouped...)
	for i := range lines {
		lines[i].ItemIdx = 0
	}
	items := make([]report.Line, 0, n-len(a.ungrouped))
	items = append(items, a.errors...)
	for _, b := range a.tests {
		items = append(items, b.lines...)
	}
	for _, key := range a.failureKeys {
		if e := a.entries[key]; e.block == nil && e.hasResult && !e.passed {
			items = append(items, noOutputBlock(key)...)
		}
	}
	items = append(items, a.warnings...)

	idx := 0
	for i := range items {
		if items[i].Type.IsTitle() {
			idx++
		}
		items[i].ItemIdx = idx
	}
	return append(lines, items...)
}

func noOutputBlock(key string) []report.Line {
	return []report.Line{
		{Type: report.Title(report.KindTestFail), Content: tty.Styled(csiBoldRed, "FAIL", "", " "+key)},
		{Type: report.Normal, Content: tty.Plain("no output")},
	}
}

// Report builds the report of everything fed so far.
func (a *Accumulator) Report() *report.Report {
	r := report.New(a.Lines())
	r.SuggestBacktrace = a.suggestBacktrace
	r.FailureKeys = a.FailureKeys()
	return r
}
