package analysis

import (
	"fmt"
	"regexp"
)

// IgnoreFilter drops lines whose visible text matches any of its patterns.
// A nil filter matches nothing.
type IgnoreFilter struct {
	patterns []*regexp.Regexp
}

// CompileIgnore compiles patterns. The first invalid one is reported with
// its index.
func CompileIgnore(patterns []string) (*IgnoreFilter, error) {
	f := &IgnoreFilter{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("ignore[%d]: %w", i, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Matches reports whether raw should be dropped.
func (f *IgnoreFilter) Matches(raw string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(raw) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (f *IgnoreFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}
