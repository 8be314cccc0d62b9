package analysis

import (
	"regexp"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

var (
	nextestResultRe = regexp.MustCompile(`^\s*([A-Z][A-Z-]*(?: \d+/\d+| \d+ [A-Z]+)?)\s+\[\s*[\d.]+m?s\]\s+(?:\(\s*\d+/\d+\)\s+)?(\S+)\s+(.+?)\s*$`)
	nextestHeaderRe = regexp.MustCompile(`^\s*(?:-+|─+)\s*(?:TRY \d+ )?(STDOUT|STDERR|OUTPUT):\s+(\S+)\s+(.+?)(?:\s+-+)?\s*$`)
	nextestBareRe   = regexp.MustCompile(`^\s*(stdout|stderr|output)\s+─+\s*$`)
	nextestEndRe    = regexp.MustCompile(`^\s*(─{4,}|-{4,}|Summary \[|Canceling|Cancelling|\d+ tests? (run|failed))`)
	nextestStartRe  = regexp.MustCompile(`^\s*(Starting|Nextest run ID|Running \[)`)
)

// nextestRecognizer classifies cargo nextest's human output. It falls back
// to the standard classifier for compiler output and panic bodies.
type nextestRecognizer struct {
	lastFailed string
}

func (r *nextestRecognizer) recognize(l output.Line) []classified {
	return emit(r.classify(l.Content), l.Content)
}

func (r *nextestRecognizer) classify(content tty.Line) LineAnalysis {
	raw := content.Raw()
	if m := nextestResultRe.FindStringSubmatch(raw); m != nil {
		key := m[2] + " " + m[3]
		switch status := strings.Fields(m[1])[0]; status {
		case "PASS", "LEAK", "FLAKY":
			return result(key, true)
		case "FAIL", "TIMEOUT", "ABORT", "LEAK-FAIL", "SIGSEGV", "SIGABRT", "SIGBUS", "SIGILL", "SIGFPE", "SIGKILL", "SIGTERM":
			r.lastFailed = key
			return result(key, false)
		default:
			return garbage()
		}
	}
	if m := nextestHeaderRe.FindStringSubmatch(raw); m != nil {
		key := m[2] + " " + m[3]
		r.lastFailed = key
		return testFail(key)
	}
	if nextestBareRe.MatchString(raw) {
		if r.lastFailed == "" {
			warn(KindNextest, "output header with no failed test before it", content)
			return normal()
		}
		return testFail(r.lastFailed)
	}
	if nextestEndRe.MatchString(raw) {
		return sectionEnd()
	}
	if nextestStartRe.MatchString(raw) {
		return garbage()
	}
	return nestedStandard(content)
}

// nestedStandard applies the standard classifier to lines printed inside a
// nextest output block, where libtest's own results and section markers
// are only text.
func nestedStandard(content tty.Line) LineAnalysis {
	a := classifyStandard(content)
	switch a.Type.Class {
	case report.ClassTestResult:
		return normal()
	case report.ClassTitle:
		if a.Key != "" {
			return normal()
		}
	case report.ClassSectionEnd:
		if !cargoStatusRe.MatchString(content.Raw()) {
			return normal()
		}
	}
	return a
}

func nextestTitle(key string) tty.Line {
	return tty.Styled(csiBoldRed, "FAIL", "", " "+key)
}

func keepLocation(content tty.Line) LineAnalysis {
	if a := classifyStandard(content); a.Type == report.LocationLine {
		return a
	}
	return normal()
}
