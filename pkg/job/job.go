// Package job runs a command and streams its output lines.
package job

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/tty"
)

// Status represents runtime state.
type Status int

const (
	Pending Status = iota
	Running
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Spec describes the command of a job.
type Spec struct {
	Name    string
	Command []string
	Env     map[string]string
	Dir     string
}

// Task is the execution state of one run.
type Task struct {
	Spec       Spec
	Status     Status
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
	mu         sync.Mutex
}

// Event is either one output line or the end of the run.
type Event struct {
	Line     *output.Line
	Done     bool
	ExitCode int
	Err      error
}

// Start runs spec and streams its output. The channel is closed after the
// Done event. Lines of each stream arrive in the order they were written;
// stdout and stderr lines interleave as they are read.
func Start(ctx context.Context, spec Spec) (*Task, <-chan Event) {
	task := &Task{Spec: spec, Status: Pending, ExitCode: -1}
	events := make(chan Event)
	go run(ctx, task, events)
	return task, events
}

// Run is the synchronous form of Start: fn is called for every line and the
// exit code is returned once the command ends.
func Run(ctx context.Context, spec Spec, fn func(output.Line)) (int, error) {
	_, events := Start(ctx, spec)
	code, err := -1, error(nil)
	for ev := range events {
		if ev.Line != nil {
			fn(*ev.Line)
			continue
		}
		if ev.Done {
			code, err = ev.ExitCode, ev.Err
		}
	}
	return code, err
}

func (t *Task) finish(status Status, code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = status
	t.ExitCode = code
	t.FinishedAt = time.Now()
}

func run(ctx context.Context, task *Task, events chan<- Event) {
	defer close(events)
	fail := func(err error) {
		task.finish(Failed, -1)
		events <- Event{Done: true, ExitCode: -1, Err: err}
	}
	if len(task.Spec.Command) == 0 {
		fail(errors.New("job has no command"))
		return
	}
	cmd := exec.CommandContext(ctx, task.Spec.Command[0], task.Spec.Command[1:]...)
	cmd.Dir = task.Spec.Dir
	cmd.Env = environ(task.Spec.Env)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fail(fmt.Errorf("stdout pipe: %w", err))
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		fail(fmt.Errorf("stderr pipe: %w", err))
		return
	}

	task.mu.Lock()
	task.StartedAt = time.Now()
	task.Status = Running
	task.mu.Unlock()
	if err := cmd.Start(); err != nil {
		fail(fmt.Errorf("start %s: %w", task.Spec.Command[0], err))
		return
	}

	merged := make(chan output.Line)
	var streams sync.WaitGroup
	streams.Add(2)
	go readStream(&streams, stdout, output.StdOut, merged)
	go readStream(&streams, stderr, output.StdErr, merged)
	go func() {
		streams.Wait()
		close(merged)
	}()

	for line := range merged {
		line := line
		events <- Event{Line: &line}
	}

	err = cmd.Wait()
	code := 0
	status := Success
	if err != nil {
		status = Failed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
			err = nil
		} else {
			code = 1
		}
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	task.finish(status, code)
	events <- Event{Done: true, ExitCode: code, Err: err}
}

// maxLineBytes bounds one output line. Longer lines are split.
const maxLineBytes = 1024 * 1024

// readStream turns one stream into lines, each with its own parser so the
// styles of stdout never leak into stderr.
func readStream(wg *sync.WaitGroup, r io.Reader, origin output.Origin, merged chan<- output.Line) {
	defer wg.Done()
	b := tty.NewBuilder()
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	warned := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		line = append(line, chunk...)
		if isPrefix {
			if len(line) < maxLineBytes {
				continue
			}
			if !warned {
				slog.Warn("splitting long output line", "origin", origin.String(), "limit", maxLineBytes)
				warned = true
			}
		}
		if err != nil {
			if len(line) > 0 {
				merged <- output.Line{Content: b.Feed(string(line)), Origin: origin}
			}
			if !errors.Is(err, io.EOF) {
				slog.Warn("output stream read failed", "origin", origin.String(), "error", err)
			}
			return
		}
		merged <- output.Line{Content: b.Feed(string(line)), Origin: origin}
		line = line[:0]
	}
}

func environ(extra map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// Snapshot returns the status and exit code under lock.
func (t *Task) Snapshot() (Status, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Status, t.ExitCode
}

// Duration returns elapsed time.
func (t *Task) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.StartedAt.IsZero() {
		return 0
	}
	if t.FinishedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.FinishedAt.Sub(t.StartedAt)
}
