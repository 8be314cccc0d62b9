package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

// analyze runs raw stdout lines through a fresh analyzer of kind.
func analyze(t *testing.T, kind Kind, raw ...string) *report.Report {
	t.Helper()
	lines := make([]output.Line, len(raw))
	for i, s := range raw {
		lines[i] = output.NewLine(s, output.StdOut)
	}
	return analyzeLines(t, kind, lines...)
}

func analyzeLines(t *testing.T, kind Kind, lines ...output.Line) *report.Report {
	t.Helper()
	s := NewSession(Mission{Job: "test", Analyzer: kind})
	for _, l := range lines {
		s.Receive(l)
	}
	r, err := s.Finish()
	require.NoError(t, err)
	return r
}

// dump renders report lines as "idx type raw" for diffing.
func dump(r *report.Report) []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = fmt.Sprintf("%d %s %s", l.ItemIdx, l.Type, l.Content.Raw())
	}
	return out
}

func assertLines(t *testing.T, want []string, r *report.Report) {
	t.Helper()
	if diff := cmp.Diff(want, dump(r)); diff != "" {
		t.Errorf("report lines mismatch (-want +got):\n%s", diff)
	}
}

// assertContiguous checks that every item's lines are adjacent and start
// with a title.
func assertContiguous(t *testing.T, r *report.Report) {
	t.Helper()
	seen := map[int]bool{}
	prev := -1
	for i, l := range r.Lines {
		if l.ItemIdx != prev {
			require.Falsef(t, seen[l.ItemIdx], "item %d is split (line %d)", l.ItemIdx, i)
			seen[l.ItemIdx] = true
			if l.ItemIdx != 0 {
				require.Truef(t, l.Type.IsTitle(), "item %d does not start with a title", l.ItemIdx)
			}
			prev = l.ItemIdx
		}
	}
	assert.Equal(t, report.StatsFrom(r.Lines), r.Stats)
}

func TestAnalyzer_BuildReport_ReturnsErrReportBuilt_When_CalledTwice(t *testing.T) {
	t.Parallel()

	a := New(KindStandard)
	a.Start(Mission{})
	var raw output.Buffer
	a.ReceiveLine(output.NewLine("hello", output.StdOut), &raw)

	_, err := a.BuildReport()
	require.NoError(t, err)
	_, err = a.BuildReport()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReportBuilt))

	a.Start(Mission{})
	_, err = a.BuildReport()
	require.NoError(t, err, "a new run starts afresh")
}

func TestAnalyzer_ReceiveLine_KeepsRawOutput_When_LineIsDroppedFromReport(t *testing.T) {
	t.Parallel()

	s := NewSession(Mission{Analyzer: KindStandard})
	for _, l := range []string{"   Compiling demo v0.1.0", "random noise", "warning: unused"} {
		require.True(t, s.Receive(output.NewLine(l, output.StdErr)))
	}
	r, err := s.Finish()
	require.NoError(t, err)

	assert.Equal(t, 3, s.Output().Len())
	assert.Equal(t, "   Compiling demo v0.1.0\nrandom noise\nwarning: unused", s.Output().Text())
	assertLines(t, []string{"1 Title(warning) warning: unused"}, r)
}

func TestSession_Restart_ClearsOutputAndReport_When_RunRepeats(t *testing.T) {
	t.Parallel()

	s := NewSession(Mission{Job: "check", Analyzer: KindStandard})
	s.Receive(output.NewLine("error: first", output.StdErr))
	_, err := s.Finish()
	require.NoError(t, err)

	s.Restart()
	assert.Equal(t, 0, s.Output().Len())
	s.Receive(output.NewLine("warning: second", output.StdErr))
	r, err := s.Finish()
	require.NoError(t, err, "a restarted session builds a new report")
	assert.Equal(t, "warning: second", s.Output().Text())
	assert.Equal(t, 0, r.Stats.Errors)
	assert.Equal(t, 1, r.Stats.Warnings)
}

func TestSession_Receive_DropsEverywhere_When_LineMatchesIgnorePattern(t *testing.T) {
	t.Parallel()

	ignore, err := CompileIgnore([]string{`^warning: unused`, `Blocking`})
	require.NoError(t, err)
	s := NewSession(Mission{Analyzer: KindStandard, Ignore: ignore})

	assert.False(t, s.Receive(output.NewLine("\x1b[1m\x1b[33mwarning\x1b[0m\x1b[1m: unused variable\x1b[0m", output.StdErr)))
	assert.False(t, s.Receive(output.NewLine("    Blocking waiting for file lock", output.StdErr)))
	assert.True(t, s.Receive(output.NewLine("error: boom", output.StdErr)))

	r, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Output().Len())
	assert.Equal(t, 0, r.Stats.Warnings)
	assert.Equal(t, 1, r.Stats.Errors)
	for _, l := range r.Lines {
		assert.False(t, ignore.Matches(l.Content.Raw()))
	}
}

func TestCompileIgnore_ReportsIndex_When_PatternIsInvalid(t *testing.T) {
	t.Parallel()

	_, err := CompileIgnore([]string{"ok", "(unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ignore[1]")

	var nilFilter *IgnoreFilter
	assert.False(t, nilFilter.Matches("anything"))
	assert.Equal(t, 0, nilFilter.Len())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, name := range KindNames() {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}

	k, err := ParseKind("python-pytest")
	require.NoError(t, err)
	assert.Equal(t, KindPytest, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindStandard, k)

	_, err = ParseKind("cobol")
	require.Error(t, err)
}

func TestKind_UnmarshalText_RoundTripsName(t *testing.T) {
	t.Parallel()

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("go_json")))
	assert.Equal(t, KindGoJSON, k)
	b, err := k.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "go_json", string(b))
}

// Every recognizer must survive arbitrary input without panicking and
// produce a consistent report.
func TestAnalyzers_DegradeGracefully_When_InputIsUnexpected(t *testing.T) {
	t.Parallel()

	junk := []string{
		"", "\x1b[", "\x1b[38;5m\x1b]8;;\x07", "{", "[", "not json", "✖", "━━━", "___ x ___",
		"\t\tFAIL", "--- FAIL: ", "stdout ───", "  1:2  error", "a.go:1: ", "x:1:2: error: ",
	}
	for _, name := range KindNames() {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		r := analyze(t, kind, junk...)
		assertContiguous(t, r)
	}
}

// Replaying the same output through a fresh analyzer must yield the same
// report, whatever the kind.
func TestAnalyzers_ProduceSameReport_When_OutputIsReplayed(t *testing.T) {
	t.Parallel()

	fixture := []string{
		"   Compiling demo v0.1.0",
		"error[E0425]: cannot find value `x` in this scope",
		" --> src/main.rs:2:5",
		"warning: unused variable: `y`",
		"=== RUN   TestAdd",
		"    calc_test.go:12: want 3, got 4",
		"--- FAIL: TestAdd (0.00s)",
		"FAIL\texample.com/calc\t0.01s",
		"/src/a.js",
		"  1:2  error  Unexpected var  no-var",
		"✖ 1 problem (1 error, 0 warnings)",
		`{"Action":"fail","Package":"p","Test":"TestX"}`,
		"FAILED tests/test_a.py::test_b - assert 1 == 2",
		"test a::b ... FAILED",
		"error: aborting due to 1 previous error",
	}
	for _, name := range KindNames() {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			kind, err := ParseKind(name)
			require.NoError(t, err)
			first := analyze(t, kind, fixture...)
			second := analyze(t, kind, fixture...)
			if diff := cmp.Diff(dump(first), dump(second)); diff != "" {
				t.Errorf("replayed report differs (-first +second):\n%s", diff)
			}
			assert.Equal(t, first.Stats, second.Stats)
		})
	}
}
