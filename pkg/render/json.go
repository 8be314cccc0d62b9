package render

import (
	"encoding/json"

	"github.com/dkoosis/fowatch/pkg/report"
)

// JSON renders a report as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Job         string       `json:"job"`
	Success     bool         `json:"success"`
	ExitCode    int          `json:"exit_code"`
	Stats       report.Stats `json:"stats"`
	Items       []jsonItem   `json:"items"`
	FailureKeys []string     `json:"failure_keys,omitempty"`
}

type jsonItem struct {
	Index    int      `json:"index"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Location string   `json:"location,omitempty"`
	DiagType string   `json:"diag_type,omitempty"`
	Lines    []string `json:"lines"`
}

// Render formats the report as indented JSON.
func (j *JSON) Render(r *report.Report, m Meta) string {
	out := jsonOutput{
		Job:         m.Job,
		Success:     r.IsSuccess(m.AllowWarnings, m.AllowFailures),
		ExitCode:    m.ExitCode,
		Stats:       r.Stats,
		Items:       []jsonItem{},
		FailureKeys: r.FailureKeys,
	}
	for idx := 1; idx <= r.ItemCount(); idx++ {
		lines := r.ItemLines(idx)
		if len(lines) == 0 {
			continue
		}
		item := jsonItem{
			Index:    idx,
			Kind:     lines[0].Type.Kind.String(),
			Title:    lines[0].Content.Raw(),
			DiagType: r.ItemDiagType(idx),
			Lines:    make([]string, 0, len(lines)-1),
		}
		for _, l := range lines[1:] {
			if loc, ok := l.Location(); ok && item.Location == "" {
				item.Location = loc.String()
			}
			item.Lines = append(item.Lines, l.Content.Raw())
		}
		out.Items = append(out.Items, item)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
