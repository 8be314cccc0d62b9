// Package output holds the raw, unclassified lines of a command run.
package output

import (
	"strings"

	"github.com/dkoosis/fowatch/pkg/tty"
)

// Origin identifies the stream a line was read from.
type Origin int

const (
	StdOut Origin = iota
	StdErr
)

func (o Origin) String() string {
	if o == StdErr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of command output as delivered by the execution layer.
type Line struct {
	Content tty.Line
	Origin  Origin
}

// NewLine parses raw text into a Line from the given stream.
func NewLine(raw string, origin Origin) Line {
	return Line{Content: tty.Parse(raw), Origin: origin}
}

// Buffer is the raw output of one run, kept in arrival order.
type Buffer struct {
	Lines []Line
}

// Push appends a line.
func (b *Buffer) Push(l Line) {
	b.Lines = append(b.Lines, l)
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.Lines)
}

// Reset drops every line.
func (b *Buffer) Reset() {
	b.Lines = nil
}

// Text returns the visible text of every line, newline separated.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, l := range b.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Content.Raw())
	}
	return sb.String()
}
