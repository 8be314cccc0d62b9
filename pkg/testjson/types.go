// Package testjson decodes go test -json event streams and tracks the
// output of each test until it finishes.
package testjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Actions reported by test2json and by go build -json.
const (
	ActionStart       = "start"
	ActionRun         = "run"
	ActionPause       = "pause"
	ActionCont        = "cont"
	ActionPass        = "pass"
	ActionFail        = "fail"
	ActionSkip        = "skip"
	ActionOutput      = "output"
	ActionBench       = "bench"
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// Event is a single line of go test -json output.
type Event struct {
	Time        time.Time `json:"Time"`
	Action      string    `json:"Action"`
	Package     string    `json:"Package"`
	Test        string    `json:"Test"`
	Elapsed     float64   `json:"Elapsed"`
	Output      string    `json:"Output"`
	ImportPath  string    `json:"ImportPath"`
	FailedBuild string    `json:"FailedBuild"`
}

// Decode parses one line of the stream.
func Decode(line []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, fmt.Errorf("decode test event: %w", err)
	}
	if e.Action == "" {
		return Event{}, errors.New("decode test event: missing Action")
	}
	return e, nil
}

// Text returns the output carried by the event without its trailing newline.
func (e Event) Text() string {
	return strings.TrimRight(e.Output, "\r\n")
}

// IsBuild reports whether the event comes from the build rather than a test
// binary.
func (e Event) IsBuild() bool {
	return e.Action == ActionBuildOutput || e.Action == ActionBuildFail
}

// IsBoilerplate reports whether an output line only restates what the
// event stream already says, such as "=== RUN" or "--- FAIL" markers.
func IsBoilerplate(s string) bool {
	t := strings.TrimSpace(s)
	for _, p := range []string{"=== RUN", "=== PAUSE", "=== CONT", "=== NAME", "--- FAIL", "--- PASS", "--- SKIP"} {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return t == "PASS" || t == "FAIL"
}
