package analysis

import (
	"regexp"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

var (
	unittestTitleRe   = regexp.MustCompile(`^(FAIL|ERROR): (\S+) \((.+)\)`)
	unittestVerboseRe = regexp.MustCompile(`^(\S+) \((.+?)\)(?: \S.*)? \.\.\. (ok|FAIL|ERROR|skipped.*|expected failure|unexpected success)$`)
	unittestFileRe    = regexp.MustCompile(`^\s*File "[^"]+", line \d+`)
	unittestRanRe     = regexp.MustCompile(`^Ran \d+ tests? in `)
	unittestSumRe     = regexp.MustCompile(`^(OK|FAILED)( \(.*\))?$`)
)

// unittestKey builds the dotted test id from "name (where)". Python 3.11
// and later put the full id in the parentheses, earlier versions only the
// class.
func unittestKey(name, where string) string {
	if strings.HasSuffix(where, "."+name) {
		return where
	}
	return where + "." + name
}

type unittestRecognizer struct{}

func (unittestRecognizer) recognize(l output.Line) []classified {
	content := l.Content
	raw := content.Raw()
	switch {
	case strings.HasPrefix(raw, "====="):
		return emit(sectionEnd(), content)
	case strings.HasPrefix(raw, "-----"):
		return emit(garbage(), content)
	case unittestRanRe.MatchString(raw):
		return emit(sectionEnd(), content)
	case unittestSumRe.MatchString(raw):
		return emit(title(report.KindSum), content)
	case unittestFileRe.MatchString(raw):
		return emit(location(), content)
	}
	if m := unittestTitleRe.FindStringSubmatch(raw); m != nil {
		return emit(testFail(unittestKey(m[2], m[3])), content)
	}
	if m := unittestVerboseRe.FindStringSubmatch(raw); m != nil {
		key := unittestKey(m[1], m[2])
		switch status := m[3]; {
		case status == "ok" || status == "expected failure":
			return emit(result(key, true), content)
		case status == "FAIL" || status == "ERROR" || status == "unexpected success":
			return emit(result(key, false), content)
		default:
			return emit(garbage(), content)
		}
	}
	return emit(normal(), content)
}
