package tty

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Reset is the SGR sequence restoring the default style.
const Reset = "\x1b[0m"

// tabWidth is fixed; the terminal's tab stops are not consulted.
const tabWidth = 4

var tabReplacer = strings.NewReplacer("\t", strings.Repeat(" ", tabWidth))

// Builder converts raw output lines, possibly containing ANSI escape
// sequences, into styled Lines. It is not a terminal emulator: only CSI
// sequences are kept, as opaque style keys. Other sequences and control
// characters are dropped.
//
// A Builder is not safe for concurrent use; it may be reused for any number
// of lines.
type Builder struct {
	parser *ansi.Parser
	spans  []Span
	style  strings.Builder
	text   strings.Builder
	open   bool
}

// NewBuilder returns a ready Builder.
func NewBuilder() *Builder {
	b := &Builder{parser: ansi.NewParser()}
	b.parser.SetDataSize(1024)
	b.parser.SetHandler(ansi.Handler{
		Print:     b.print,
		HandleCsi: b.csi,
	})
	return b
}

// Feed parses one line of raw text (without its trailing newline).
// It never fails: any input produces some Line, possibly with no spans.
func (b *Builder) Feed(raw string) Line {
	b.parser.Reset()
	b.spans = nil
	b.open = false
	b.style.Reset()
	b.text.Reset()

	raw = strings.ToValidUTF8(raw, "\uFFFD")
	if strings.IndexByte(raw, '\t') >= 0 {
		raw = tabReplacer.Replace(raw)
	}
	for i := 0; i < len(raw); i++ {
		b.parser.Advance(raw[i])
	}
	b.closeSpan()

	return Line{Spans: b.spans}
}

func (b *Builder) print(r rune) {
	b.open = true
	b.text.WriteRune(r)
}

func (b *Builder) csi(cmd ansi.Cmd, params ansi.Params) {
	if isReset(params) {
		b.closeSpan()
		return
	}
	key := serializeCSI(cmd, params)
	if b.open && b.text.Len() == 0 {
		// several sequences before any text, e.g. bold then color
		b.style.WriteString(key)
		return
	}
	b.closeSpan()
	b.open = true
	b.style.WriteString(key)
}

// closeSpan pushes the open span if it holds text and leaves no span open.
func (b *Builder) closeSpan() {
	if b.open && b.text.Len() > 0 {
		b.spans = append(b.spans, Span{Style: b.style.String(), Text: b.text.String()})
	}
	b.open = false
	b.style.Reset()
	b.text.Reset()
}

// isReset reports whether the parameter list is exactly [0]. An empty list
// counts as [0], as in ECMA-48 default parameter handling.
func isReset(params ansi.Params) bool {
	switch len(params) {
	case 0:
		return true
	case 1:
		return params[0].Param(0) == 0 && !params[0].HasMore()
	}
	return false
}

// serializeCSI rebuilds the escape text of a CSI sequence so it can be used
// as a style key.
func serializeCSI(cmd ansi.Cmd, params ansi.Params) string {
	var sb strings.Builder
	sb.WriteString("\x1b[")
	if p := cmd.Prefix(); p != 0 {
		sb.WriteByte(p)
	}
	for i, p := range params {
		if v := p.Param(-1); v >= 0 {
			sb.WriteString(strconv.Itoa(v))
		}
		if i < len(params)-1 {
			if p.HasMore() {
				sb.WriteByte(':')
			} else {
				sb.WriteByte(';')
			}
		}
	}
	if im := cmd.Intermediate(); im != 0 {
		sb.WriteByte(im)
	}
	sb.WriteByte(cmd.Final())
	return sb.String()
}

// Parse is a convenience wrapping a fresh Builder.
func Parse(raw string) Line {
	return NewBuilder().Feed(raw)
}
