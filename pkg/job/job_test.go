package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/fowatch/pkg/output"
)

func collect(t *testing.T, spec Spec) ([]output.Line, int, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	var lines []output.Line
	code, err := Run(ctx, spec, func(l output.Line) { lines = append(lines, l) })
	return lines, code, err
}

func byOrigin(lines []output.Line, o output.Origin) []string {
	var out []string
	for _, l := range lines {
		if l.Origin == o {
			out = append(out, l.Content.Raw())
		}
	}
	return out
}

func TestRun_StreamsBothOutputsInOrder_When_CommandFails(t *testing.T) {
	t.Parallel()

	lines, code, err := collect(t, Spec{
		Name:    "mixed",
		Command: []string{"sh", "-c", "printf 'a\\nb\\n'; printf 'e1\\n' >&2; printf 'c\\n'; printf 'e2\\n' >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, []string{"a", "b", "c"}, byOrigin(lines, output.StdOut))
	assert.Equal(t, []string{"e1", "e2"}, byOrigin(lines, output.StdErr))
}

func TestRun_ParsesStyles_And_PassesEnv(t *testing.T) {
	t.Parallel()

	lines, code, err := collect(t, Spec{
		Command: []string{"sh", "-c", "printf '\\033[1;31merror\\033[0m: %s\\n' \"$FOWATCH_TEST_VAR\""},
		Env:     map[string]string{"FOWATCH_TEST_VAR": "boom"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	require.Len(t, lines, 1)
	assert.Equal(t, "error: boom", lines[0].Content.Raw())
	assert.Equal(t, "\x1b[1;31m", lines[0].Content.Spans[0].Style)
}

func TestRun_SplitsLongLine_And_KeepsReading(t *testing.T) {
	t.Parallel()

	lines, code, err := collect(t, Spec{
		Command: []string{"sh", "-c", "printf '%03000000d\\n' 0; echo after"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	got := byOrigin(lines, output.StdOut)
	require.NotEmpty(t, got)
	assert.Equal(t, "after", got[len(got)-1])
	total := 0
	for _, l := range got[:len(got)-1] {
		assert.LessOrEqual(t, len(l), maxLineBytes)
		total += len(l)
	}
	assert.Equal(t, 3000000, total)
}

func TestStart_ReportsError_When_CommandIsMissing(t *testing.T) {
	t.Parallel()

	task, events := Start(context.Background(), Spec{Command: []string{"fowatch-definitely-not-a-command"}})
	var last Event
	for ev := range events {
		last = ev
	}
	assert.True(t, last.Done)
	require.Error(t, last.Err)
	status, code := task.Snapshot()
	assert.Equal(t, Failed, status)
	assert.Equal(t, -1, code)

	_, events = Start(context.Background(), Spec{})
	ev := <-events
	require.Error(t, ev.Err)
}

func TestTask_Duration(t *testing.T) {
	t.Parallel()

	task := &Task{}
	assert.Equal(t, time.Duration(0), task.Duration())
	task.StartedAt = time.Now().Add(-time.Second)
	task.FinishedAt = task.StartedAt.Add(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, task.Duration())
	assert.Equal(t, "failed", Failed.String())
}
