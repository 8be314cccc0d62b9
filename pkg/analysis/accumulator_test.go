package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

func TestAccumulator_Lines_OrdersErrorsTestsWarnings_When_ArrivalDiffers(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(title(report.KindWarning), tty.Plain("warning: w1"))
	acc.Feed(normal(), tty.Plain("w1 body"))
	acc.Feed(testFail("t1"), tty.Plain("---- t1 stdout ----"))
	acc.Feed(normal(), tty.Plain("t1 body"))
	acc.Feed(title(report.KindError), tty.Plain("error: e1"))
	acc.Feed(location(), tty.Plain("  --> a.rs:1:1"))
	acc.Feed(title(report.KindWarning), tty.Plain("warning: w2"))
	acc.Feed(title(report.KindError), tty.Plain("error: e2"))

	r := acc.Report()
	assertLines(t, []string{
		"1 Title(error) error: e1",
		"1 Location   --> a.rs:1:1",
		"2 Title(error) error: e2",
		"3 Title(test) ---- t1 stdout ----",
		"3 Normal t1 body",
		"4 Title(warning) warning: w1",
		"4 Normal w1 body",
		"5 Title(warning) warning: w2",
	}, r)
	assertContiguous(t, r)
	assert.Equal(t, 5, r.ItemCount())
}

func TestAccumulator_PushLine_Drops_When_NoItemIsOpen(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(normal(), tty.Plain("preamble"))
	acc.Feed(title(report.KindError), tty.Plain("error: e"))
	acc.Feed(sectionEnd(), tty.Plain(""))
	acc.Feed(normal(), tty.Plain("after section end"))
	acc.Feed(title(report.KindSum), tty.Plain("error: aborting due to previous error"))
	acc.Feed(normal(), tty.Plain("after sum"))

	assertLines(t, []string{
		"0 Title(sum) error: aborting due to previous error",
		"1 Title(error) error: e",
	}, acc.Report())
}

func TestAccumulator_PushLocation_SkipsRepeat_When_SameItemSamePosition(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(title(report.KindError), tty.Plain("error: e"))
	acc.Feed(location(), tty.Plain("  --> a.rs:3:1"))
	acc.Feed(location(), tty.Plain("  --> a.rs:3:9"))
	acc.Feed(location(), tty.Plain("  --> a.rs:4:1"))
	acc.Feed(title(report.KindError), tty.Plain("error: f"))
	acc.Feed(location(), tty.Plain("  --> a.rs:4:1"))

	r := acc.Report()
	assert.Equal(t, 3, r.Stats.LocationLines)
	assertLines(t, []string{
		"1 Title(error) error: e",
		"1 Location   --> a.rs:3:1",
		"1 Location   --> a.rs:4:1",
		"2 Title(error) error: f",
		"2 Location   --> a.rs:4:1",
	}, r)
}

func TestAccumulator_Lines_SynthesizesNoOutput_When_FailedTestHasNoBlock(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(result("a", false), tty.Plain("FAIL a"))
	acc.Feed(result("b", false), tty.Plain("FAIL b"))
	acc.Feed(testFail("b"), tty.Plain("--- STDOUT: b ---"))
	acc.Feed(result("a", false), tty.Plain("FAIL a"))

	r := acc.Report()
	assertLines(t, []string{
		"0 TestResult(false) FAIL a",
		"0 TestResult(false) FAIL b",
		"1 Title(test) --- STDOUT: b ---",
		"2 Title(test) FAIL a",
		"2 Normal no output",
	}, r)
	assert.Equal(t, []string{"a", "b"}, r.FailureKeys)
	assert.Equal(t, 2, r.Stats.TestFails)
}

func TestAccumulator_StartTestFailure_KeepsPass_When_TestPassedBefore(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(result("k", true), tty.Plain("PASS k"))
	acc.Feed(testFail("k"), tty.Plain("--- STDERR: k ---"))
	acc.Feed(normal(), tty.Plain("detail"))
	acc.Feed(result("k", false), tty.Plain("FAIL k"))

	require.Contains(t, acc.entries, "k")
	assert.True(t, acc.entries["k"].passed)

	r := acc.Report()
	assertLines(t, []string{
		"0 TestResult(true) PASS k",
		"1 Title(test) --- STDERR: k ---",
		"1 Normal detail",
	}, r)
	assert.Equal(t, 1, r.Stats.PassedTests)
	assert.Equal(t, 1, r.Stats.TestFails)
}

func TestAccumulator_StartTestFailure_MergesBlocks_When_KeyRepeats(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(testFail("k"), tty.Plain("--- STDOUT: k ---"))
	acc.Feed(normal(), tty.Plain("out"))
	acc.Feed(title(report.KindWarning), tty.Plain("warning: w"))
	acc.Feed(testFail("k"), tty.Plain("--- STDERR: k ---"))
	acc.Feed(normal(), tty.Plain("err"))

	assertLines(t, []string{
		"1 Title(test) --- STDOUT: k ---",
		"1 Normal out",
		"1 Normal --- STDERR: k ---",
		"1 Normal err",
		"2 Title(warning) warning: w",
	}, acc.Report())
}

func TestAccumulator_Feed_SetsBacktraceSuggestion(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	acc.Feed(LineAnalysis{Type: report.BacktraceSuggestion}, tty.Plain("note: run with `RUST_BACKTRACE=1`"))
	assert.True(t, acc.Report().SuggestBacktrace)
	assert.Empty(t, acc.Report().Lines)
}
