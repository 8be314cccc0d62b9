package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/fowatch/pkg/tty"
)

// Line is one classified line of a report.
// ItemIdx is 0 for lines belonging to no item.
type Line struct {
	ItemIdx int
	Type    LineType
	Content tty.Line
}

// Location is a source position. Line and Column are 0 when unknown.
type Location struct {
	Path   string
	Line   int
	Column int
}

func (l Location) String() string {
	s := l.Path
	if l.Line > 0 {
		s += ":" + strconv.Itoa(l.Line)
		if l.Column > 0 {
			s += ":" + strconv.Itoa(l.Column)
		}
	}
	return s
}

var (
	pythonFileRe   = regexp.MustCompile(`File "([^"]+)", line (\d+)`)
	trailingPosRe  = regexp.MustCompile(`(\S+?):(\d+)(?::(\d+))?:?\s*$`)
	leadingPosRe   = regexp.MustCompile(`^\s*(\S+?):(\d+)(?::(\d+))?(?::|\s|$)`)
	trailingPathRe = regexp.MustCompile(`(\S+)\s*$`)
	bracketCodeRe  = regexp.MustCompile(`^\[([\w-]+)\]`)
	titleCodeRe    = regexp.MustCompile(`^\s*(?:error|warning)\[([\w-]+)\]`)
	lintAttrRe     = regexp.MustCompile("#\\[(?:warn|deny|forbid|allow)\\(([\\w:-]+)\\)\\]")
	titlePrefixRe  = regexp.MustCompile(`^\s*(?:error|warning)(?:\[[^\]]*\])?:\s*`)
)

// Location extracts the path[:line[:col]] reference of a Location line.
func (l Line) Location() (Location, bool) {
	if l.Type.Class != ClassLocation || len(l.Content.Spans) == 0 {
		return Location{}, false
	}
	raw := l.Content.Raw()
	if m := pythonFileRe.FindStringSubmatch(raw); m != nil {
		return newLocation(m[1], m[2], ""), true
	}
	last := l.Content.Spans[len(l.Content.Spans)-1].Text
	for _, text := range []string{last, raw} {
		if m := trailingPosRe.FindStringSubmatch(text); m != nil {
			return newLocation(m[1], m[2], m[3]), true
		}
	}
	if m := leadingPosRe.FindStringSubmatch(raw); m != nil {
		return newLocation(m[1], m[2], m[3]), true
	}
	if m := trailingPathRe.FindStringSubmatch(last); m != nil {
		return Location{Path: m[1]}, true
	}
	return Location{}, false
}

func newLocation(path, line, col string) Location {
	loc := Location{Path: path}
	loc.Line, _ = strconv.Atoi(line)
	if col != "" {
		loc.Column, _ = strconv.Atoi(col)
	}
	return loc
}

// DiagType returns a short diagnostic category, such as an error code or a
// lint name, when the line exposes one. It returns "" freely.
func (l Line) DiagType() string {
	if s, ok := l.Content.Span(1); ok {
		if m := bracketCodeRe.FindStringSubmatch(s.Text); m != nil {
			return m[1]
		}
	}
	if m := titleCodeRe.FindStringSubmatch(l.Content.Raw()); m != nil {
		return m[1]
	}
	return lintAttr(l.Content)
}

func lintAttr(content tty.Line) string {
	for _, s := range content.Spans {
		if m := lintAttrRe.FindStringSubmatch(s.Text); m != nil {
			return m[1]
		}
	}
	if m := lintAttrRe.FindStringSubmatch(content.Raw()); m != nil {
		return m[1]
	}
	return ""
}

// Message returns the text of a title without its "error:" style prefix.
func (l Line) Message() string {
	raw := l.Content.Raw()
	if loc := titlePrefixRe.FindStringIndex(raw); loc != nil {
		raw = raw[loc[1]:]
	}
	return strings.TrimSpace(raw)
}
