package analysis

import (
	"log/slog"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/testjson"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// goJSONRecognizer reads go test -json events. Test output is held until
// the test ends and only failing tests show it. Package output and build
// output go through the plain go classifier.
type goJSONRecognizer struct {
	tracker *testjson.Tracker
	builder *tty.Builder
}

func newGoJSONRecognizer() *goJSONRecognizer {
	return &goJSONRecognizer{tracker: testjson.NewTracker(), builder: tty.NewBuilder()}
}

func (r *goJSONRecognizer) recognize(l output.Line) []classified {
	raw := strings.TrimSpace(l.Content.Raw())
	if !strings.HasPrefix(raw, "{") {
		return goLine(l.Content)
	}
	ev, err := testjson.Decode([]byte(raw))
	if err != nil {
		return parseErrorLine(err)
	}
	if ev.IsBuild() {
		if ev.Action == testjson.ActionBuildFail {
			return emit(sectionEnd(), l.Content)
		}
		return goLine(r.builder.Feed(ev.Text()))
	}
	if ev.Action == testjson.ActionOutput && ev.Test == "" {
		text := ev.Text()
		if strings.TrimSpace(text) == "" || testjson.IsBoilerplate(text) {
			return nil
		}
		return goLine(r.builder.Feed(text))
	}
	o, done := r.tracker.Add(ev)
	if !done {
		return nil
	}
	if !o.Failed() {
		if o.Action == testjson.ActionPass {
			return emit(result(o.Key(), true), tty.Plain("--- PASS: "+o.Test+" ("+o.Package+")"))
		}
		return nil
	}
	if o.Subtests > 0 && len(o.Output) == 0 {
		return nil
	}
	out := []classified{
		{LineAnalysis: result(o.Key(), false), Content: tty.Plain("--- FAIL: " + o.Test + " (" + o.Package + ")")},
		{LineAnalysis: testFail(o.Key()), Content: tty.Styled(csiBoldRed, "FAIL", "", " "+o.Test, "\x1b[2m", " "+o.Package)},
	}
	for _, s := range o.Output {
		content := r.builder.Feed(s)
		a := normal()
		if goIndentLocRe.MatchString(s) || goDiagRe.MatchString(s) {
			a = location()
		}
		out = append(out, classified{LineAnalysis: a, Content: content})
	}
	if len(o.Output) == 0 {
		out = append(out, classified{LineAnalysis: normal(), Content: tty.Plain("no output")})
	}
	return append(out, classified{LineAnalysis: sectionEnd()})
}

func (r *goJSONRecognizer) finish() []classified {
	st := r.tracker.Stats()
	slog.Debug("go test finished",
		"tests", st.Total(),
		"passed", st.Passed,
		"failed", st.Failed,
		"skipped", st.Skipped,
		"packages", st.Packages,
		"failed_packages", st.FailedPkgs)
	return nil
}
