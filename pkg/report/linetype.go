// Package report defines the classified, grouped result of analyzing one
// command run: ordered lines tagged with the diagnostic item they belong to,
// aggregate statistics and run metadata.
package report

import "fmt"

// Kind is the category of a diagnostic item.
type Kind int

const (
	KindWarning Kind = iota
	KindError
	KindTestFail
	KindTestOutput
	KindSum
)

// String returns the name used in exports and logs.
func (k Kind) String() string {
	switch k {
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindTestFail:
		return "test"
	case KindTestOutput:
		return "test_output"
	case KindSum:
		return "sum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Class is the role of a line.
type Class int

const (
	ClassNormal Class = iota
	ClassTitle
	ClassLocation
	ClassTestResult
	ClassBacktraceSuggestion
	ClassSectionEnd
	ClassGarbage
	ClassContinuation
)

// LineType is the classification of one line. Kind is meaningful for
// titles, Passed for test results, Offset and Summary for continuations.
type LineType struct {
	Class   Class
	Kind    Kind
	Passed  bool
	Offset  int
	Summary bool
}

// Line types without payload.
var (
	Normal              = LineType{Class: ClassNormal}
	LocationLine        = LineType{Class: ClassLocation}
	BacktraceSuggestion = LineType{Class: ClassBacktraceSuggestion}
	SectionEnd          = LineType{Class: ClassSectionEnd}
	Garbage             = LineType{Class: ClassGarbage}
)

// Title returns the type of the first line of an item of kind k.
func Title(k Kind) LineType {
	return LineType{Class: ClassTitle, Kind: k}
}

// TestResult returns the type of a test outcome line.
func TestResult(passed bool) LineType {
	return LineType{Class: ClassTestResult, Passed: passed}
}

// Continuation returns the type of a display-wrapped line pointing back
// offset lines to its logical origin.
func Continuation(offset int, summary bool) LineType {
	return LineType{Class: ClassContinuation, Offset: offset, Summary: summary}
}

// IsTitle reports whether the type is a title of any kind.
func (t LineType) IsTitle() bool {
	return t.Class == ClassTitle
}

// IsTitleOf reports whether the type is a title of kind k.
func (t LineType) IsTitleOf(k Kind) bool {
	return t.Class == ClassTitle && t.Kind == k
}

func (t LineType) String() string {
	switch t.Class {
	case ClassTitle:
		return "Title(" + t.Kind.String() + ")"
	case ClassLocation:
		return "Location"
	case ClassTestResult:
		return fmt.Sprintf("TestResult(%t)", t.Passed)
	case ClassBacktraceSuggestion:
		return "BacktraceSuggestion"
	case ClassSectionEnd:
		return "SectionEnd"
	case ClassGarbage:
		return "Garbage"
	case ClassContinuation:
		return fmt.Sprintf("Continuation(%d,%t)", t.Offset, t.Summary)
	default:
		return "Normal"
	}
}
