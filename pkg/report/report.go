package report

import "sort"

// Report is the result of analyzing one run.
//
// Lines are ordered: item 0 lines first, then errors, test failures and
// warnings. Each item's lines are contiguous and begin with its title.
type Report struct {
	Lines            []Line
	Stats            Stats
	SuggestBacktrace bool
	FailureKeys      []string

	// Dismissed lines, kept to be restored. Their items no longer count in
	// Stats.
	DismissedLines []Line
	DismissedItems int
}

// New builds a report from ordered lines, computing its stats.
func New(lines []Line) *Report {
	return &Report{Lines: lines, Stats: StatsFrom(lines)}
}

// ItemCount returns the number of items, the highest item index present.
func (r *Report) ItemCount() int {
	n := 0
	for _, l := range r.Lines {
		if l.ItemIdx > n {
			n = l.ItemIdx
		}
	}
	return n
}

// ItemLines returns the lines of item idx, title first.
func (r *Report) ItemLines(idx int) []Line {
	start := -1
	for i, l := range r.Lines {
		if l.ItemIdx == idx {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return r.Lines[start:i]
		}
	}
	if start < 0 {
		return nil
	}
	return r.Lines[start:]
}

// ItemTitle returns the title line of item idx.
func (r *Report) ItemTitle(idx int) (Line, bool) {
	for _, l := range r.ItemLines(idx) {
		if l.Type.IsTitle() {
			return l, true
		}
	}
	return Line{}, false
}

// ItemDiagType returns the diagnostic category of item idx, read from its
// title or else from a lint annotation in its body.
func (r *Report) ItemDiagType(idx int) string {
	lines := r.ItemLines(idx)
	if len(lines) == 0 {
		return ""
	}
	if dt := lines[0].DiagType(); dt != "" {
		return dt
	}
	for _, l := range lines[1:] {
		if dt := lintAttr(l.Content); dt != "" {
			return dt
		}
	}
	return ""
}

// IsSuccess reports whether the run should be considered clean.
func (r *Report) IsSuccess(allowWarnings, allowFailures bool) bool {
	if r.Stats.Errors > 0 {
		return false
	}
	if !allowFailures && r.Stats.TestFails > 0 {
		return false
	}
	return allowWarnings || r.Stats.Warnings == 0
}

// Dismiss hides item idx. Item 0 cannot be dismissed.
func (r *Report) Dismiss(idx int) bool {
	if idx <= 0 {
		return false
	}
	kept := r.Lines[:0:0]
	found := false
	for _, l := range r.Lines {
		if l.ItemIdx == idx {
			r.DismissedLines = append(r.DismissedLines, l)
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return false
	}
	r.Lines = kept
	r.DismissedItems++
	r.Stats = StatsFrom(r.Lines)
	return true
}

// RestoreDismissed puts every dismissed item back in its original place.
func (r *Report) RestoreDismissed() {
	if len(r.DismissedLines) == 0 {
		return
	}
	lines := append(r.Lines, r.DismissedLines...)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].ItemIdx < lines[j].ItemIdx
	})
	r.Lines = lines
	r.DismissedLines = nil
	r.DismissedItems = 0
	r.Stats = StatsFrom(r.Lines)
}
