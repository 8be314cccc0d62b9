package testjson

import "strings"

// Outcome is a finished test with the output it produced.
type Outcome struct {
	Package  string
	Test     string
	Action   string // pass, fail or skip
	Output   []string
	Subtests int // failed subtests, for a parent test
}

// Failed reports whether the test failed.
func (o Outcome) Failed() bool {
	return o.Action == ActionFail
}

// Key identifies the test across packages.
func (o Outcome) Key() string {
	return o.Package + " " + o.Test
}

type testKey struct {
	pkg, test string
}

// Tracker buffers per-test output until the test finishes.
type Tracker struct {
	output       map[testKey][]string
	failedChilds map[testKey]int
	stats        Stats
	packages     map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		output:       make(map[testKey][]string),
		failedChilds: make(map[testKey]int),
		packages:     make(map[string]struct{}),
	}
}

// Add records an event. It returns the outcome when the event ends a test.
// Boilerplate output lines are not kept.
func (t *Tracker) Add(e Event) (Outcome, bool) {
	if e.Package != "" {
		if _, ok := t.packages[e.Package]; !ok {
			t.packages[e.Package] = struct{}{}
			t.stats.Packages++
		}
	}
	k := testKey{e.Package, e.Test}
	switch e.Action {
	case ActionOutput:
		if e.Test == "" {
			return Outcome{}, false
		}
		if s := e.Text(); strings.TrimSpace(s) != "" && !IsBoilerplate(s) {
			t.output[k] = append(t.output[k], s)
		}
		return Outcome{}, false
	case ActionPass, ActionFail, ActionSkip:
	default:
		return Outcome{}, false
	}
	if e.Test == "" {
		if e.Action == ActionFail {
			t.stats.FailedPkgs++
		}
		return Outcome{}, false
	}
	o := Outcome{
		Package:  e.Package,
		Test:     e.Test,
		Action:   e.Action,
		Output:   t.output[k],
		Subtests: t.failedChilds[k],
	}
	delete(t.output, k)
	delete(t.failedChilds, k)
	switch e.Action {
	case ActionPass:
		t.stats.Passed++
	case ActionSkip:
		t.stats.Skipped++
	case ActionFail:
		t.stats.Failed++
		if i := strings.LastIndexByte(e.Test, '/'); i > 0 {
			t.failedChilds[testKey{e.Package, e.Test[:i]}]++
		}
	}
	return o, true
}

// Stats returns counts over the events seen so far.
func (t *Tracker) Stats() Stats {
	return t.stats
}
