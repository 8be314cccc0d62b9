// Package detect guesses which analyzer fits a job, either from the command
// line that runs it or by sniffing captured output.
package detect

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dkoosis/fowatch/pkg/analysis"
)

// FromCommand returns the analyzer for a job command. Commands it does not
// know get the standard analyzer.
func FromCommand(argv []string) analysis.Kind {
	if len(argv) == 0 {
		return analysis.KindStandard
	}
	tool := strings.TrimSuffix(filepath.Base(argv[0]), ".exe")
	args := argv[1:]

	// Runners that just forward to another tool.
	switch tool {
	case "npx", "pnpm", "yarn", "bunx", "uv", "poetry", "pipenv":
		if rest := skipRunner(args); len(rest) > 0 {
			return FromCommand(rest)
		}
	case "python", "python3":
		if i := slices.Index(args, "-m"); i >= 0 && i+1 < len(args) {
			return FromCommand(args[i+1:])
		}
	}

	switch tool {
	case "cargo":
		return cargo(args)
	case "go":
		if hasFlag(args, "-json") && slices.Contains(args, "test") {
			return analysis.KindGoJSON
		}
		return analysis.KindGo
	case "golangci-lint", "staticcheck":
		return analysis.KindGo
	case "eslint":
		return analysis.KindEslint
	case "biome":
		return analysis.KindBiome
	case "pytest", "py.test":
		return analysis.KindPytest
	case "unittest":
		return analysis.KindUnittest
	case "ruff":
		return analysis.KindRuff
	case "swift":
		return analysis.KindSwiftBuild
	case "swiftlint":
		return analysis.KindSwiftLint
	case "gcc", "g++", "clang", "clang++", "cc", "c++", "make", "cmake", "ninja":
		return analysis.KindCpp
	}
	return analysis.KindStandard
}

func cargo(args []string) analysis.Kind {
	structured := messageFormatJSON(args)
	if slices.Contains(args, "nextest") {
		if structured || hasFlag(args, "--message-format-version") {
			return analysis.KindNextestJSON
		}
		return analysis.KindNextest
	}
	if structured {
		return analysis.KindCargoJSON
	}
	return analysis.KindStandard
}

func messageFormatJSON(args []string) bool {
	for i, a := range args {
		v, ok := strings.CutPrefix(a, "--message-format=")
		if !ok && a == "--message-format" && i+1 < len(args) {
			v, ok = args[i+1], true
		}
		if ok && (strings.HasPrefix(v, "json") || strings.HasPrefix(v, "libtest-json")) {
			return true
		}
	}
	return false
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func skipRunner(args []string) []string {
	for i, a := range args {
		if a == "run" || a == "exec" || strings.HasPrefix(a, "-") {
			continue
		}
		return args[i:]
	}
	return nil
}

// Sniff examines the first line of captured output and returns the analyzer
// for the JSON streams it recognizes. ok is false for anything else.
func Sniff(data []byte) (analysis.Kind, bool) {
	line := firstLine(data)
	if len(line) == 0 {
		return analysis.KindStandard, false
	}
	switch line[0] {
	case '[':
		if isEslintJSON(line) {
			return analysis.KindEslint, true
		}
	case '{':
		var probe struct {
			Action string `json:"Action"`
			Reason string `json:"reason"`
			Type   string `json:"type"`
			Event  string `json:"event"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return analysis.KindStandard, false
		}
		switch {
		case probe.Action != "":
			return analysis.KindGoJSON, true
		case probe.Reason != "":
			return analysis.KindCargoJSON, true
		case probe.Type != "" && probe.Event != "":
			return analysis.KindNextestJSON, true
		}
	}
	return analysis.KindStandard, false
}

func firstLine(data []byte) []byte {
	for len(data) > 0 && (data[0] == ' ' || data[0] == '\t' || data[0] == '\n' || data[0] == '\r') {
		data = data[1:]
	}
	end := 0
	for end < len(data) && data[end] != '\n' {
		end++
	}
	return data[:end]
}

func isEslintJSON(line []byte) bool {
	var probe []struct {
		FilePath string            `json:"filePath"`
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return false
	}
	return len(probe) > 0 && probe[0].FilePath != ""
}
