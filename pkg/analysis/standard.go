package analysis

import (
	"regexp"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// Style keys emitted by rustc and cargo, in their 256 and 16 color forms.
var (
	cargoRedKeys    = []string{"\x1b[1m\x1b[38;5;9m", "\x1b[1m\x1b[91m", "\x1b[1m\x1b[31m", "\x1b[1;31m"}
	cargoYellowKeys = []string{"\x1b[1m\x1b[33m", "\x1b[1m\x1b[93m", "\x1b[1m\x1b[38;5;11m", "\x1b[1;33m"}
	cargoBlueKeys   = []string{"\x1b[1m\x1b[38;5;12m", "\x1b[1m\x1b[94m", "\x1b[1m\x1b[34m", "\x1b[1;34m"}
)

var (
	plainTitleRe    = regexp.MustCompile(`^(error|warning)(\[[\w-]+\])?: `)
	sumRe           = regexp.MustCompile(`aborting due to|generated \d+ warnings?|\d+ warnings? emitted|could not compile|test failed, to rerun|test run failed|build failed|previous errors?`)
	arrowRe         = regexp.MustCompile(`^\s*(-->|:::) \S`)
	panickedRe      = regexp.MustCompile(`panicked at (?:'.*', )?\S+:\d+:\d+:?$`)
	commaLocRe      = regexp.MustCompile(`, \S+:\d+:\d+$`)
	cargoTestRe     = regexp.MustCompile(`^test (.+?) \.\.\. (\w+)`)
	cargoStdoutRe   = regexp.MustCompile(`^---- (.+) stdout ----$`)
	cargoStatusRe   = regexp.MustCompile(`^\s*(Compiling|Checking|Finished|Running|Documenting|Doc-tests|Fresh|Building|Blocking|Downloaded|Downloading|Updating|Locking|Adding|Removing|Packaging|Verifying|Installing|Installed|Replacing|Migrating|Waiting)\b`)
	cargoSectionEnd = regexp.MustCompile(`^(failures:|test result: |running \d+ tests?$)`)
)

func hasKey(keys []string, style string) bool {
	for _, k := range keys {
		if k == style {
			return true
		}
	}
	return false
}

// cargoTitleKind recognizes a rustc or cargo title by the style and word of
// its first span.
func cargoTitleKind(content tty.Line) (report.Kind, bool) {
	if s, ok := content.Span(0); ok {
		switch {
		case hasKey(cargoRedKeys, s.Style) && strings.HasPrefix(s.Text, "error"):
			return report.KindError, true
		case hasKey(cargoYellowKeys, s.Style) && strings.HasPrefix(s.Text, "warning"):
			return report.KindWarning, true
		}
	}
	if text, ok := content.IfUnstyled(); ok {
		if m := plainTitleRe.FindStringSubmatch(text); m != nil {
			if m[1] == "error" {
				return report.KindError, true
			}
			return report.KindWarning, true
		}
	}
	return 0, false
}

func isSum(content tty.Line) bool {
	spans := content.Spans
	if len(spans) > 1 {
		return sumRe.MatchString(tty.Join(spans[1:]))
	}
	return sumRe.MatchString(content.Raw())
}

func isCargoLocation(content tty.Line) bool {
	spans := content.Spans
	if len(spans) >= 2 && spans[0].IsBlank() && hasKey(cargoBlueKeys, spans[1].Style) {
		if t := spans[1].Text; t == "--> " || t == "::: " || t == "-->" || t == ":::" {
			return true
		}
	}
	raw := content.Raw()
	return arrowRe.MatchString(raw) || panickedRe.MatchString(raw) || commaLocRe.MatchString(raw)
}

// classifyStandard classifies rustc, cargo and cargo test output.
func classifyStandard(content tty.Line) LineAnalysis {
	if kind, ok := cargoTitleKind(content); ok {
		if isSum(content) {
			return title(report.KindSum)
		}
		return title(kind)
	}
	if isCargoLocation(content) {
		return location()
	}
	raw := content.Raw()
	if m := cargoTestRe.FindStringSubmatch(raw); m != nil {
		switch m[2] {
		case "ok":
			return result(m[1], true)
		case "FAILED":
			return result(m[1], false)
		default:
			return garbage()
		}
	}
	if m := cargoStdoutRe.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
		return testFail(m[1])
	}
	if strings.Contains(raw, "RUST_BACKTRACE=1") || strings.Contains(raw, "RUST_BACKTRACE=full") {
		return LineAnalysis{Type: report.BacktraceSuggestion}
	}
	if cargoSectionEnd.MatchString(raw) || cargoStatusRe.MatchString(raw) {
		return sectionEnd()
	}
	return normal()
}

type standardRecognizer struct{}

func (standardRecognizer) recognize(l output.Line) []classified {
	return emit(classifyStandard(l.Content), l.Content)
}
