package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

var (
	eslintPosRe     = regexp.MustCompile(`^(\d+):(\d+)$`)
	eslintStylishRe = regexp.MustCompile(`^\s+(\d+):(\d+)\s+(error|warning)\s+(.*)$`)
	eslintCompactRe = regexp.MustCompile(`^(.+?): line (\d+), col (\d+), (Error|Warning) - (.+)$`)
	eslintUnixRe    = regexp.MustCompile(`^([^:\s]+):(\d+):(\d+): (.+?) \[(Error|Warning)(?:/([\w/@-]+))?\]$`)
	eslintSumRe     = regexp.MustCompile(`^\s*✖ \d+ problems?`)
	eslintPathRe    = regexp.MustCompile(`^\S.*\.\w+$`)
)

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
	} `json:"messages"`
}

// eslintRecognizer handles the stylish (default), compact, unix and json
// formatters. Stylish prints the file path on its own line before the
// problems of that file, so the last path seen is remembered.
type eslintRecognizer struct {
	path string
}

func severityKind(s string) report.Kind {
	if strings.EqualFold(s, "error") {
		return report.KindError
	}
	return report.KindWarning
}

// stylishPosition reads "line:col  severity" from the span layout
// blank, position, blank, severity.
func stylishPosition(content tty.Line) (line, col, severity string, ok bool) {
	s := content.Spans
	if len(s) < 4 || !s[0].IsBlank() || !s[2].IsBlank() {
		return "", "", "", false
	}
	m := eslintPosRe.FindStringSubmatch(strings.TrimSpace(s[1].Text))
	sev := strings.TrimSpace(s[3].Text)
	if m == nil || (sev != "error" && sev != "warning") {
		return "", "", "", false
	}
	return m[1], m[2], sev, true
}

func (r *eslintRecognizer) titled(kind report.Kind, content tty.Line, line, col string) []classified {
	out := emit(title(kind), content)
	if r.path == "" {
		warn(KindEslint, "problem line with no file path before it", content)
		return out
	}
	return append(out, classified{LineAnalysis: location(), Content: synthLocation(r.path, line, col)})
}

func (r *eslintRecognizer) recognize(l output.Line) []classified {
	content := l.Content
	if line, col, sev, ok := stylishPosition(content); ok {
		return r.titled(severityKind(sev), content, line, col)
	}
	raw := content.Raw()
	if m := eslintStylishRe.FindStringSubmatch(raw); m != nil {
		return r.titled(severityKind(m[3]), content, m[1], m[2])
	}
	if m := eslintCompactRe.FindStringSubmatch(raw); m != nil {
		return append(emit(title(severityKind(m[4])), content),
			classified{LineAnalysis: location(), Content: synthLocation(m[1], m[2], m[3])})
	}
	if m := eslintUnixRe.FindStringSubmatch(raw); m != nil {
		return append(emit(title(severityKind(m[5])), content),
			classified{LineAnalysis: location(), Content: synthLocation(m[1], m[2], m[3])})
	}
	if eslintSumRe.MatchString(raw) {
		return emit(title(report.KindSum), content)
	}
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		if out, ok := eslintJSON(trimmed); ok {
			return out
		}
	}
	if trimmed == "" {
		return emit(sectionEnd(), content)
	}
	if raw == trimmed && eslintPathRe.MatchString(trimmed) {
		r.path = trimmed
		return emit(sectionEnd(), content)
	}
	return emit(normal(), content)
}

func eslintJSON(raw string) ([]classified, bool) {
	var files []eslintFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, false
	}
	var out []classified
	for _, f := range files {
		for _, m := range f.Messages {
			kind, word := report.KindWarning, "warning"
			style := csiBoldYellow
			if m.Severity >= 2 {
				kind, word, style = report.KindError, "error", csiBoldRed
			}
			head := tty.Styled(style, word)
			if m.RuleID != "" {
				head.Spans = append(head.Spans, tty.NewSpan("", "["+m.RuleID+"]"))
			}
			head.Spans = append(head.Spans, tty.NewSpan("", fmt.Sprintf(": %s", m.Message)))
			out = append(out,
				classified{LineAnalysis: title(kind), Content: head},
				classified{LineAnalysis: location(), Content: synthLocation(f.FilePath, strconv.Itoa(m.Line), strconv.Itoa(m.Column))},
			)
		}
	}
	return out, true
}
