package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors and icons of the chrome around tool output.
// When StripTool is set the tool's own escape sequences are dropped too.
type Theme struct {
	Name      string
	Header    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Test      lipgloss.Style
	Muted     lipgloss.Style
	Icons     Icons
	StripTool bool
}

// Icons used in the summary line.
type Icons struct {
	Pass  string
	Error string
	Warn  string
	Test  string
	Run   string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Test:    lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Icons:   Icons{Pass: "✓", Error: "✗", Warn: "⚠", Test: "⊘", Run: "○"},
	}
}

// OrcaTheme returns a muted theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
		Test:    lipgloss.NewStyle().Foreground(lipgloss.Color("139")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Icons:   Icons{Pass: "✓", Error: "✗", Warn: "!", Test: "×", Run: "·"},
	}
}

// MonoTheme returns a theme without any color, tool styles included.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:      "mono",
		Header:    lipgloss.NewStyle().Bold(true),
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Test:      plain,
		Muted:     plain,
		Icons:     Icons{Pass: "+", Error: "x", Warn: "!", Test: "x", Run: "-"},
		StripTool: true,
	}
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	if f, ok := themes[name]; ok {
		return f()
	}
	return DefaultTheme()
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ThemeNames lists the known themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
