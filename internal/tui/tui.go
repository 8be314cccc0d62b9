// Package tui shows a job in a full-screen terminal view: live progress
// while it runs, then its report, with rerun and dismissal keys.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/fowatch/pkg/analysis"
	"github.com/dkoosis/fowatch/pkg/job"
	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/render"
	"github.com/dkoosis/fowatch/pkg/report"
)

// Job is what the view needs to run and judge one job.
type Job struct {
	Name          string
	Spec          job.Spec
	Mission       analysis.Mission
	AllowWarnings bool
	AllowFailures bool
}

// ReportFunc is called with every finished report.
type ReportFunc func(*report.Report, render.Meta)

// Run starts the job and shows it until the user quits. The exit code
// reflects the last finished run.
func Run(ctx context.Context, j Job, theme render.Theme, onReport ReportFunc) (int, error) {
	program := tea.NewProgram(newModel(ctx, j, theme, onReport), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return 2, fmt.Errorf("run tui: %w", err)
	}
	m := final.(model)
	m.stop()
	return m.exitCode(), nil
}

const tickInterval = time.Second / 8

type tickMsg struct{}

type lineMsg struct {
	run  int
	line output.Line
}

type doneMsg struct {
	run  int
	code int
	err  error
}

type model struct {
	ctx      context.Context
	job      Job
	theme    Theme
	term     *render.Terminal
	onReport ReportFunc

	run     int
	cancel  context.CancelFunc
	task    *job.Task
	events  <-chan job.Event
	session *analysis.Session
	running bool
	lines   int

	rep     *report.Report
	meta    render.Meta
	err     error
	showRaw bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// Theme is the render theme plus the chrome styles of the view.
type Theme struct {
	render.Theme
	Help lipgloss.Style
}

func newModel(ctx context.Context, j Job, theme render.Theme, onReport ReportFunc) model {
	vp := viewport.New(0, 0)
	return model{
		ctx:      ctx,
		job:      j,
		theme:    Theme{Theme: theme, Help: theme.Muted.Italic(true)},
		term:     render.NewTerminal(theme, 80),
		onReport: onReport,
		viewport: vp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.start(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// start launches a new run. Messages of earlier runs are recognized by
// their run number and ignored.
func (m *model) start() tea.Cmd {
	m.stop()
	m.run++
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.task, m.events = job.Start(ctx, m.job.Spec)
	if m.session == nil {
		m.session = analysis.NewSession(m.job.Mission)
	} else {
		m.session.Restart()
	}
	m.running = true
	m.lines = 0
	m.err = nil
	slog.Info("job started", "job", m.job.Name, "run", m.run, "analyzer", m.job.Mission.Analyzer.String())
	return listen(m.run, m.events)
}

// stop cancels the current run and drains its events so the runner
// goroutine can exit.
func (m *model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.events != nil {
		go func(events <-chan job.Event) {
			for range events {
			}
		}(m.events)
		m.events = nil
	}
	m.running = false
}

func listen(run int, events <-chan job.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		if ev.Done {
			return doneMsg{run: run, code: ev.ExitCode, err: ev.Err}
		}
		return lineMsg{run: run, line: *ev.Line}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.term = render.NewTerminal(m.theme.Theme, msg.Width)
		m.ready = true
		m.refresh()
	case tickMsg:
		return m, tick()
	case lineMsg:
		if msg.run != m.run || m.session == nil {
			return m, nil
		}
		if m.session.Receive(msg.line) {
			m.lines++
		}
		if m.rep == nil || m.showRaw {
			m.refresh()
		}
		return m, listen(m.run, m.events)
	case doneMsg:
		if msg.run != m.run || m.session == nil {
			return m, nil
		}
		m.finish(msg)
	}
	return m, nil
}

func (m *model) finish(msg doneMsg) {
	m.stop()

	rep, err := m.session.Finish()
	if err != nil {
		slog.Warn("report not built", "job", m.job.Name, "error", err)
		return
	}
	var d time.Duration
	if m.task != nil {
		d = m.task.Duration()
	}
	m.rep = rep
	m.err = msg.err
	m.meta = render.Meta{
		Job:           m.job.Name,
		ExitCode:      msg.code,
		Duration:      d,
		AllowWarnings: m.job.AllowWarnings,
		AllowFailures: m.job.AllowFailures,
	}
	m.showRaw = render.PreferRaw(rep, msg.code)
	slog.Info("job finished", "job", m.job.Name, "run", m.run, "exit_code", msg.code,
		"errors", rep.Stats.Errors, "warnings", rep.Stats.Warnings, "test_fails", rep.Stats.TestFails)
	if m.onReport != nil {
		m.onReport(rep, m.meta)
	}
	m.refresh()
	m.viewport.GotoTop()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.stop()
		return m, tea.Quit
	case "r":
		cmd := m.start()
		m.refresh()
		return m, cmd
	case "t":
		if m.rep != nil {
			m.showRaw = !m.showRaw
			m.refresh()
		}
		return m, nil
	case "d":
		if m.rep != nil && !m.running {
			if idx, ok := firstItem(m.rep); ok && m.rep.Dismiss(idx) {
				m.refresh()
			}
		}
		return m, nil
	case "u":
		if m.rep != nil && !m.running {
			m.rep.RestoreDismissed()
			m.refresh()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func firstItem(r *report.Report) (int, bool) {
	for _, l := range r.Lines {
		if l.ItemIdx > 0 {
			return l.ItemIdx, true
		}
	}
	return 0, false
}

func (m *model) refresh() {
	switch {
	case m.session != nil && (m.rep == nil || m.showRaw):
		m.viewport.SetContent(m.term.RawBody(m.session.Output()))
		if m.running {
			m.viewport.GotoBottom()
		}
	case m.rep != nil:
		m.viewport.SetContent(m.term.Body(m.rep))
	}
}

func (m model) View() string {
	if !m.ready {
		return "Starting " + m.job.Name + "..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.help())
}

func (m model) header() string {
	if m.running || m.rep == nil {
		elapsed := ""
		if m.task != nil {
			elapsed = " " + m.task.Duration().Round(100*time.Millisecond).String()
		}
		return m.theme.Header.Render(fmt.Sprintf("%s %s", m.theme.Icons.Run, m.job.Name)) +
			m.theme.Muted.Render(fmt.Sprintf("  running · %d lines%s", m.lines, elapsed))
	}
	h := m.term.Summary(m.rep, m.meta)
	if m.showRaw {
		h += m.theme.Muted.Render("  · raw output")
	}
	if m.err != nil {
		h += "  " + m.theme.Error.Render(m.err.Error())
	}
	return h
}

func (m model) help() string {
	return m.theme.Help.Render("r rerun • t raw/report • d dismiss • u restore • j/k scroll • q quit")
}

func (m model) exitCode() int {
	switch {
	case m.rep == nil:
		return 1
	case m.err != nil:
		return 2
	case m.rep.IsSuccess(m.job.AllowWarnings, m.job.AllowFailures):
		return 0
	default:
		return 1
	}
}
