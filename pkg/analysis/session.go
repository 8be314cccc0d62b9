package analysis

import (
	"log/slog"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

// Session is one run of a mission: the analyzer and the raw output it
// keeps alongside.
type Session struct {
	mission  Mission
	analyzer Analyzer
	raw      output.Buffer
}

// NewSession starts a run with a fresh analyzer.
func NewSession(m Mission) *Session {
	s := &Session{mission: m, analyzer: New(m.Analyzer)}
	s.Restart()
	return s
}

// Restart drops the lines of the previous run and readies the analyzer for
// a new one.
func (s *Session) Restart() {
	s.raw.Reset()
	s.analyzer.Start(s.mission)
	slog.Debug("session started",
		"job", s.mission.Job,
		"analyzer", s.mission.Analyzer.String(),
		"ignore_patterns", s.mission.Ignore.Len())
}

// Receive hands one line to the analyzer. It returns false when the line
// was dropped by the mission's ignore filter.
func (s *Session) Receive(l output.Line) bool {
	n := s.raw.Len()
	s.analyzer.ReceiveLine(l, &s.raw)
	return s.raw.Len() > n
}

// Finish builds the report of the run.
func (s *Session) Finish() (*report.Report, error) {
	return s.analyzer.BuildReport()
}

// Output returns the raw lines kept so far.
func (s *Session) Output() *output.Buffer {
	return &s.raw
}

// Mission returns the mission the session runs.
func (s *Session) Mission() Mission {
	return s.mission
}
