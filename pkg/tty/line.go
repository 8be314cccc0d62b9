// Package tty models styled terminal text as captured from a tool's output.
//
// A Line is an ordered sequence of Spans. Each Span carries the raw escape
// sequence text that preceded it (its style key) and the visible text it
// styles. Style keys are opaque: they are compared, never decoded.
package tty

import "strings"

// Span is a run of text sharing one escape-sequence prefix.
// Text never contains an escape sequence.
type Span struct {
	Style string // raw CSI text, e.g. "\x1b[1m\x1b[31m"; empty means unstyled
	Text  string
}

// Line is one line of styled output.
type Line struct {
	Spans []Span
}

// NewSpan returns a span with the given style key and text.
func NewSpan(style, text string) Span {
	return Span{Style: style, Text: text}
}

// IsBlank reports whether the span's text is only whitespace.
func (s Span) IsBlank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Is reports whether the span has exactly this style key and text.
func (s Span) Is(style, text string) bool {
	return s.Style == style && s.Text == text
}

// Plain builds an unstyled line.
func Plain(text string) Line {
	return Line{Spans: []Span{{Text: text}}}
}

// Styled builds a line from alternating style/text pairs.
// A trailing unpaired value is ignored.
func Styled(pairs ...string) Line {
	var l Line
	for i := 0; i+1 < len(pairs); i += 2 {
		l.Spans = append(l.Spans, Span{Style: pairs[i], Text: pairs[i+1]})
	}
	return l
}

// Raw returns the visible characters of the line.
func (l Line) Raw() string {
	switch len(l.Spans) {
	case 0:
		return ""
	case 1:
		return l.Spans[0].Text
	}
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// String renders the line with its escape sequences, each styled span
// followed by a reset.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		if s.Style != "" {
			b.WriteString(s.Style)
			b.WriteString(s.Text)
			b.WriteString(Reset)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsBlank reports whether every span's trimmed text is empty.
// A line with no spans is blank.
func (l Line) IsBlank() bool {
	for _, s := range l.Spans {
		if !s.IsBlank() {
			return false
		}
	}
	return true
}

// IfUnstyled returns the text of the line when it is made of exactly one
// unstyled span.
func (l Line) IfUnstyled() (string, bool) {
	if len(l.Spans) == 1 && l.Spans[0].Style == "" {
		return l.Spans[0].Text, true
	}
	return "", false
}

// Span returns the span at index i, if any.
func (l Line) Span(i int) (Span, bool) {
	if i < 0 || i >= len(l.Spans) {
		return Span{}, false
	}
	return l.Spans[i], true
}

// After returns the spans that follow the first occurrence of marker inside
// a single span's text, along with true when marker was found. A marker
// straddling two spans is not found.
//
// When marker ends exactly on a span boundary the result is a subslice of the
// line's own spans and must not be modified. When it falls inside a span, a
// new slice is allocated whose first span holds the tail of the split span,
// with that span's style key.
func (l Line) After(marker string) ([]Span, bool) {
	for i, s := range l.Spans {
		idx := strings.Index(s.Text, marker)
		if idx < 0 {
			continue
		}
		end := idx + len(marker)
		if end == len(s.Text) {
			return l.Spans[i+1:], true
		}
		out := make([]Span, 0, len(l.Spans)-i)
		out = append(out, Span{Style: s.Style, Text: s.Text[end:]})
		out = append(out, l.Spans[i+1:]...)
		return out, true
	}
	return nil, false
}

// Join concatenates the text of spans.
func Join(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
