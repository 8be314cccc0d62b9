package analysis

import (
	"regexp"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

var (
	goPackageRe   = regexp.MustCompile(`^# \S+`)
	goDiagRe      = regexp.MustCompile(`^(?:vet: )?(\.{0,2}/?[^\s:]+\.go):(\d+)(?::(\d+))?: (.+)$`)
	goIndentLocRe = regexp.MustCompile(`^\s+\S+\.go:\d+`)
	goFailRe      = regexp.MustCompile(`^\s*--- FAIL: (\S+) \(`)
	goPassRe      = regexp.MustCompile(`^\s*--- PASS: (\S+) \(`)
	goSkipRe      = regexp.MustCompile(`^\s*--- SKIP: `)
	goMarkerRe    = regexp.MustCompile(`^=== (RUN|PAUSE|CONT|NAME)\b\s*(\S*)`)
	goPkgResultRe = regexp.MustCompile(`^(ok|FAIL|PASS)(\s|$)|^\?\s+\S+\s+\[no test files\]`)
	goPanicRe     = regexp.MustCompile(`^panic: `)
	goExitRe      = regexp.MustCompile(`^exit status \d+$`)
)

// goLine classifies one line of go build, vet or test output. A compiler or
// vet diagnostic carries its position inline, which is split into a
// location line after the title.
func goLine(content tty.Line) []classified {
	raw := content.Raw()
	switch {
	case goMarkerRe.MatchString(raw):
		return emit(sectionEnd(), content)
	case goPackageRe.MatchString(raw), goPkgResultRe.MatchString(raw):
		return emit(sectionEnd(), content)
	case goExitRe.MatchString(raw), goSkipRe.MatchString(raw):
		return emit(garbage(), content)
	case goPanicRe.MatchString(raw):
		return emit(title(report.KindError), content)
	}
	if m := goFailRe.FindStringSubmatch(raw); m != nil {
		return emit(testFail(m[1]), content)
	}
	if m := goPassRe.FindStringSubmatch(raw); m != nil {
		return emit(result(m[1], true), content)
	}
	if m := goDiagRe.FindStringSubmatch(raw); m != nil {
		return append(emit(title(report.KindError), content),
			classified{LineAnalysis: location(), Content: synthLocation(m[1], m[2], m[3])})
	}
	if goIndentLocRe.MatchString(raw) {
		return emit(location(), content)
	}
	return emit(normal(), content)
}

// goRecognizer follows the === markers of go test -v, which print a test's
// log lines before its --- FAIL line. Those lines are held per test and
// replayed under the failure title, or dropped when the test passes.
type goRecognizer struct {
	current string
	held    map[string][]tty.Line
}

func (r *goRecognizer) recognize(l output.Line) []classified {
	raw := l.Content.Raw()
	if m := goMarkerRe.FindStringSubmatch(raw); m != nil {
		r.current = m[2]
		if m[1] == "PAUSE" {
			r.current = ""
		}
		return goLine(l.Content)
	}
	if m := goFailRe.FindStringSubmatch(raw); m != nil {
		out := goLine(l.Content)
		for _, h := range r.take(m[1]) {
			out = append(out, goLine(h)...)
		}
		return out
	}
	if m := goPassRe.FindStringSubmatch(raw); m != nil {
		r.take(m[1])
		return goLine(l.Content)
	}
	switch {
	case goPkgResultRe.MatchString(raw), goPackageRe.MatchString(raw), goPanicRe.MatchString(raw):
		r.current = ""
		r.held = nil
	case goSkipRe.MatchString(raw):
		r.current = ""
	case r.current != "":
		if r.held == nil {
			r.held = make(map[string][]tty.Line)
		}
		r.held[r.current] = append(r.held[r.current], l.Content)
		return nil
	}
	return goLine(l.Content)
}

// take returns and forgets the lines held for test.
func (r *goRecognizer) take(test string) []tty.Line {
	lines := r.held[test]
	delete(r.held, test)
	if r.current == test {
		r.current = ""
	}
	return lines
}
