package analysis

import (
	"encoding/json"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/tty"
)

type nextestEvent struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Name   string `json:"name"`
	Stdout string `json:"stdout"`
}

// nextestKey turns "crate::bin$tests::a" into "crate::bin tests::a", the
// form the human output uses.
func nextestKey(name string) string {
	return strings.Replace(name, "$", " ", 1)
}

// nextestJSONRecognizer reads nextest's libtest-json records on stdout.
type nextestJSONRecognizer struct{}

func (nextestJSONRecognizer) recognize(l output.Line) []classified {
	if l.Origin == output.StdErr {
		return emit(classifyStandard(l.Content), l.Content)
	}
	raw := strings.TrimSpace(l.Content.Raw())
	if raw == "" {
		return nil
	}
	var ev nextestEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return parseErrorLine(err)
	}
	switch ev.Type {
	case "suite":
		if ev.Event == "started" {
			return nil
		}
		return emit(sectionEnd(), l.Content)
	case "test":
	default:
		return nil
	}
	key := nextestKey(ev.Name)
	switch ev.Event {
	case "ok":
		return emit(result(key, true), tty.Plain("PASS "+key))
	case "failed", "timeout":
	default:
		return nil
	}
	out := []classified{
		{LineAnalysis: result(key, false), Content: tty.Plain("FAIL " + key)},
		{LineAnalysis: testFail(key), Content: nextestTitle(key)},
	}
	stdout := strings.TrimRight(ev.Stdout, "\n")
	if stdout == "" {
		out = append(out, classified{LineAnalysis: normal(), Content: tty.Plain("no output")})
	} else {
		b := tty.NewBuilder()
		for _, s := range strings.Split(stdout, "\n") {
			content := b.Feed(s)
			out = append(out, classified{LineAnalysis: keepLocation(content), Content: content})
		}
	}
	return append(out, classified{LineAnalysis: sectionEnd()})
}
