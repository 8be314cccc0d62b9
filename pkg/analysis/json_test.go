package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/fowatch/pkg/output"
)

func TestCargoJSON_ReportsParseError_When_LineIsNotJSON(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindCargoJSON, "not json", `{"reason":"build-finished","success":true}`)
	require.Len(t, r.Lines, 1)
	l := r.Lines[0]
	assert.Equal(t, 0, l.ItemIdx)
	assert.Equal(t, "Normal", l.Type.String())
	assert.True(t, strings.HasPrefix(l.Content.Raw(), "Error parsing JSON:"))
	assert.Equal(t, 1, r.Stats.NormalLines)
}

func TestCargoJSON_ClassifiesRenderedDiagnostics(t *testing.T) {
	t.Parallel()

	r := analyzeLines(t, KindCargoJSON,
		output.NewLine(`{"reason":"compiler-artifact","package_id":"demo"}`, output.StdOut),
		output.NewLine(`{"reason":"compiler-message","package_id":"demo","message":{"message":"unused variable: `+"`y`"+`","level":"warning","code":{"code":"unused_variables"},"rendered":"warning: unused variable: `+"`y`"+`\n --> src/main.rs:4:9\n  |\n4 |     let y = 1;\n  |         ^\n\n"}}`, output.StdOut),
		output.NewLine(`{"reason":"compiler-message","package_id":"demo","message":{"message":"cannot find value `+"`x`"+`","level":"error","code":{"code":"E0425"},"rendered":"\u001b[0m\u001b[1m\u001b[38;5;9merror[E0425]\u001b[0m\u001b[1m: cannot find value `+"`x`"+`\u001b[0m\n\u001b[0m \u001b[0m\u001b[1m\u001b[38;5;12m--> \u001b[0msrc/main.rs:2:5\n"}}`, output.StdOut),
		output.NewLine(`{"reason":"compiler-message","message":{"message":"no rendering","level":"error","code":null,"rendered":null}}`, output.StdOut),
		output.NewLine("error: could not compile `demo` (bin \"demo\") due to 2 previous errors", output.StdErr),
	)
	assertLines(t, []string{
		"0 Title(sum) error: could not compile `demo` (bin \"demo\") due to 2 previous errors",
		"1 Title(error) error[E0425]: cannot find value `x`",
		"1 Location  --> src/main.rs:2:5",
		"2 Title(error) error: no rendering",
		"3 Title(warning) warning: unused variable: `y`",
		"3 Location  --> src/main.rs:4:9",
		"3 Normal   |",
		"3 Normal 4 |     let y = 1;",
		"3 Normal   |         ^",
	}, r)
	assertContiguous(t, r)
}

func TestNextestJSON_GroupsEvents(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindNextestJSON,
		`{"type":"suite","event":"started","test_count":3}`,
		`{"type":"test","event":"started","name":"demo::bin$tests::a"}`,
		`{"type":"test","event":"ok","name":"demo::bin$tests::a","exec_time":0.001}`,
		`{"type":"test","event":"failed","name":"demo::bin$tests::b","exec_time":0.002,"stdout":"\nrunning 1 test\nthread 'tests::b' panicked at src/lib.rs:10:9:\nboom\n"}`,
		`{"type":"test","event":"ignored","name":"demo::bin$tests::c"}`,
		`{"type":"test","event":"timeout","name":"demo::bin$tests::d"}`,
		`{"type":"suite","event":"failed","passed":1,"failed":2,"ignored":1}`,
	)
	assertLines(t, []string{
		"0 TestResult(true) PASS demo::bin tests::a",
		"0 TestResult(false) FAIL demo::bin tests::b",
		"0 TestResult(false) FAIL demo::bin tests::d",
		"1 Title(test) FAIL demo::bin tests::b",
		"1 Normal ",
		"1 Normal running 1 test",
		"1 Location thread 'tests::b' panicked at src/lib.rs:10:9:",
		"1 Normal boom",
		"2 Title(test) FAIL demo::bin tests::d",
		"2 Normal no output",
	}, r)
	assert.Equal(t, []string{"demo::bin tests::b", "demo::bin tests::d"}, r.FailureKeys)
}

func TestNextestJSON_ReportsParseError_And_Continues(t *testing.T) {
	t.Parallel()

	r := analyze(t, KindNextestJSON,
		`{"type":"test","event":"failed","name":"x$y"}`,
		`{broken`,
		`{"type":"test","event":"ok","name":"x$z"}`,
	)
	assert.Equal(t, 1, r.Stats.TestFails)
	assert.Equal(t, 1, r.Stats.PassedTests)
	var parseErrors int
	for _, l := range r.Lines {
		if strings.HasPrefix(l.Content.Raw(), "Error parsing JSON:") {
			parseErrors++
			assert.Equal(t, 0, l.ItemIdx)
		}
	}
	assert.Equal(t, 1, parseErrors)
}
