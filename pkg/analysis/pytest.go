package analysis

import (
	"regexp"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

var (
	pytestSectionRe = regexp.MustCompile(`^=+ (FAILURES|ERRORS|short test summary info|warnings summary|test session starts|PASSES|slowest.*) =+$`)
	pytestSumRe     = regexp.MustCompile(`^=+ .*\b(passed|failed|errors?|skipped|deselected|xfailed|xpassed|no tests ran)\b.* =+$`)
	pytestBlockRe   = regexp.MustCompile(`^_{3,} (.+?) _{3,}$`)
	pytestResultRe  = regexp.MustCompile(`^(PASSED|FAILED|ERROR|XPASS|XFAIL|SKIPPED) (\S+)`)
	pytestVerboseRe = regexp.MustCompile(`^(\S+::\S+) (PASSED|FAILED|ERROR|SKIPPED|XFAIL|XPASS)\b`)
	pytestLocRe     = regexp.MustCompile(`^(\S+\.pyi?):(\d+): `)
	pytestFileRe    = regexp.MustCompile(`File "[^"]+", line \d+`)
	pytestErrorOfRe = regexp.MustCompile(`^ERROR (?:at|collecting) (?:setup of |teardown of )?(.+)$`)
)

// pytestKey normalizes a node id to the name pytest prints in the header
// of a failure: the part after the module, with "::" turned into dots.
func pytestKey(nodeID string) string {
	if i := strings.Index(nodeID, "::"); i >= 0 {
		nodeID = nodeID[i+2:]
	}
	return strings.ReplaceAll(nodeID, "::", ".")
}

type pytestSection int

const (
	pytestOther pytestSection = iota
	pytestFailures
	pytestErrors
	pytestSummary
)

// pytestRecognizer tracks which section of the session output it is in.
// Failure blocks only open inside the FAILURES and ERRORS sections.
type pytestRecognizer struct {
	section pytestSection
}

func (r *pytestRecognizer) recognize(l output.Line) []classified {
	content := l.Content
	raw := content.Raw()
	if m := pytestSectionRe.FindStringSubmatch(raw); m != nil {
		switch m[1] {
		case "FAILURES":
			r.section = pytestFailures
		case "ERRORS":
			r.section = pytestErrors
		case "short test summary info":
			r.section = pytestSummary
		default:
			r.section = pytestOther
		}
		return emit(sectionEnd(), content)
	}
	if pytestSumRe.MatchString(raw) {
		r.section = pytestOther
		return emit(title(report.KindSum), content)
	}
	if m := pytestBlockRe.FindStringSubmatch(raw); m != nil {
		switch r.section {
		case pytestFailures:
			return emit(testFail(m[1]), content)
		case pytestErrors:
			if e := pytestErrorOfRe.FindStringSubmatch(m[1]); e != nil {
				return emit(testFail(pytestKey(e[1])), content)
			}
			return emit(title(report.KindError), content)
		}
	}
	if m := pytestResultRe.FindStringSubmatch(raw); m != nil {
		return emit(pytestResult(m[2], m[1]), content)
	}
	if m := pytestVerboseRe.FindStringSubmatch(raw); m != nil {
		return emit(pytestResult(m[1], m[2]), content)
	}
	if pytestLocRe.MatchString(raw) || pytestFileRe.MatchString(raw) {
		return emit(location(), content)
	}
	return emit(normal(), content)
}

func pytestResult(nodeID, status string) LineAnalysis {
	switch status {
	case "PASSED", "XFAIL":
		return result(pytestKey(nodeID), true)
	case "FAILED", "ERROR", "XPASS":
		return result(pytestKey(nodeID), false)
	default:
		return garbage()
	}
}
