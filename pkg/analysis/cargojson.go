package analysis

import (
	"encoding/json"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

type cargoMessage struct {
	Reason  string           `json:"reason"`
	Message *cargoDiagnostic `json:"message"`
}

type cargoDiagnostic struct {
	Message  string `json:"message"`
	Level    string `json:"level"`
	Rendered string `json:"rendered"`
	Code     *struct {
		Code string `json:"code"`
	} `json:"code"`
}

// parseErrorLine is the line standing in for an unparsable JSON record.
func parseErrorLine(err error) []classified {
	return []classified{{
		LineAnalysis: normal(),
		Content:      tty.Plain("Error parsing JSON: " + err.Error()),
		ungrouped:    true,
	}}
}

// renderedLines classifies every line of a rendered diagnostic.
func renderedLines(rendered string) []classified {
	rendered = strings.TrimRight(rendered, "\n")
	if rendered == "" {
		return nil
	}
	parts := strings.Split(rendered, "\n")
	out := make([]classified, 0, len(parts))
	b := tty.NewBuilder()
	for _, p := range parts {
		content := b.Feed(p)
		out = append(out, classified{LineAnalysis: classifyStandard(content), Content: content})
	}
	return out
}

// cargoJSONRecognizer reads cargo's --message-format json records on
// stdout. Stderr carries cargo's own status lines.
type cargoJSONRecognizer struct{}

func (cargoJSONRecognizer) recognize(l output.Line) []classified {
	if l.Origin == output.StdErr {
		return emit(classifyStandard(l.Content), l.Content)
	}
	raw := strings.TrimSpace(l.Content.Raw())
	if raw == "" {
		return nil
	}
	var msg cargoMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return parseErrorLine(err)
	}
	if msg.Reason != "compiler-message" || msg.Message == nil {
		return nil
	}
	d := msg.Message
	if d.Rendered != "" {
		return renderedLines(d.Rendered)
	}
	var kind report.Kind
	switch d.Level {
	case "error", "error: internal compiler error":
		kind = report.KindError
	case "warning":
		kind = report.KindWarning
	default:
		return nil
	}
	head := d.Level
	if d.Code != nil && d.Code.Code != "" {
		head += "[" + d.Code.Code + "]"
	}
	return emit(title(kind), tty.Plain(head+": "+d.Message))
}
