package analysis

import (
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// diagTitle builds a normalized title "severity[code]: message" whose
// message spans are taken from content after marker, keeping their styles.
// It falls back to plain text when marker is missing.
func diagTitle(kind report.Kind, code string, content tty.Line, marker, fallback string) tty.Line {
	word, style := "warning", csiBoldYellow
	if kind == report.KindError {
		word, style = "error", csiBoldRed
	}
	spans := []tty.Span{tty.NewSpan(style, word)}
	if code != "" {
		spans = append(spans, tty.NewSpan("\x1b[1m", "["+code+"]"))
	}
	spans = append(spans, tty.NewSpan("", ": "))
	if rest, ok := content.After(marker); ok && len(rest) > 0 {
		spans = append(spans, rest...)
	} else {
		spans = append(spans, tty.NewSpan("", fallback))
	}
	return tty.Line{Spans: spans}
}
