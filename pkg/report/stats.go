package report

// Stats are counts derived from a report's lines.
type Stats struct {
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	TestFails     int `json:"test_fails"`
	PassedTests   int `json:"passed_tests"`
	LocationLines int `json:"location_lines"`
	NormalLines   int `json:"normal_lines"`
}

// StatsFrom counts lines by type. Summary titles are not counted.
func StatsFrom(lines []Line) Stats {
	var s Stats
	for _, l := range lines {
		switch l.Type.Class {
		case ClassTitle:
			switch l.Type.Kind {
			case KindError:
				s.Errors++
			case KindWarning:
				s.Warnings++
			case KindTestFail:
				s.TestFails++
			}
		case ClassTestResult:
			if l.Type.Passed {
				s.PassedTests++
			}
		case ClassLocation:
			s.LocationLines++
		case ClassNormal:
			s.NormalLines++
		}
	}
	return s
}

// Items returns the number of diagnostic items counted.
func (s Stats) Items() int {
	return s.Errors + s.Warnings + s.TestFails
}
