package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// Kind selects the analyzer for a job.
type Kind int

const (
	KindStandard Kind = iota
	KindCargoJSON
	KindNextest
	KindNextestJSON
	KindEslint
	KindBiome
	KindGo
	KindGoJSON
	KindPytest
	KindUnittest
	KindRuff
	KindSwiftBuild
	KindSwiftLint
	KindCpp
)

var kindNames = map[Kind]string{
	KindStandard:    "standard",
	KindCargoJSON:   "cargo_json",
	KindNextest:     "nextest",
	KindNextestJSON: "nextest_json",
	KindEslint:      "eslint",
	KindBiome:       "biome",
	KindGo:          "go",
	KindGoJSON:      "go_json",
	KindPytest:      "python_pytest",
	KindUnittest:    "python_unittest",
	KindRuff:        "python_ruff",
	KindSwiftBuild:  "swift_build",
	KindSwiftLint:   "swift_lint",
	KindCpp:         "cpp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("analyzer(%d)", int(k))
}

// ParseKind returns the kind named s. Dashes are accepted for underscores
// and an empty name means standard.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "" || name == "cargo" {
		return KindStandard, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindStandard, fmt.Errorf("unknown analyzer %q (known: %s)", s, strings.Join(KindNames(), ", "))
}

// KindNames lists every analyzer name, sorted.
func KindNames() []string {
	names := make([]string, 0, len(kindNames))
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UnmarshalText lets a Kind be read from configuration.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText writes the kind's name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
