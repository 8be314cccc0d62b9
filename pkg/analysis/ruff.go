package analysis

import (
	"regexp"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

var (
	ruffConciseRe = regexp.MustCompile(`^(\S+?):(\d+):(\d+): ([A-Z]+\d+) (?:\[\*\] )?(.+)$`)
	ruffFullRe    = regexp.MustCompile(`^([A-Z]+\d+) (?:\[\*\] )?(.+)$`)
	ruffArrowRe   = regexp.MustCompile(`^\s*--> \S+:\d+:\d+`)
	ruffSumRe     = regexp.MustCompile(`^(Found \d+ errors?|All checks passed!)`)
	ruffFixRe     = regexp.MustCompile(`^\[\*\] \d+ fixable|^No fixes available`)
)

// ruffRecognizer reads both the concise and the full output formats.
type ruffRecognizer struct{}

func (ruffRecognizer) recognize(l output.Line) []classified {
	content := l.Content
	raw := content.Raw()
	if m := ruffConciseRe.FindStringSubmatch(raw); m != nil {
		head := diagTitle(report.KindError, m[4], content, m[4]+" ", m[5])
		return []classified{
			{LineAnalysis: title(report.KindError), Content: head},
			{LineAnalysis: location(), Content: synthLocation(m[1], m[2], m[3])},
		}
	}
	if m := ruffFullRe.FindStringSubmatch(raw); m != nil {
		return emit(title(report.KindError), diagTitle(report.KindError, m[1], content, m[1]+" ", m[2]))
	}
	switch {
	case ruffArrowRe.MatchString(raw):
		return emit(location(), content)
	case ruffSumRe.MatchString(raw):
		return emit(title(report.KindSum), content)
	case ruffFixRe.MatchString(raw):
		return emit(garbage(), content)
	}
	return emit(normal(), content)
}
