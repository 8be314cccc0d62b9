package analysis

import (
	"regexp"
	"strings"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
)

// diagLineRe matches "path:line[:col]: severity: message", the layout shared
// by clang, gcc, swiftc and swiftlint.
var diagLineRe = regexp.MustCompile(`^(\S.*?):(\d+):(?:(\d+):)? (fatal error|error|warning|note|remark): (.*)$`)

// diagGrammar is the table of a tool using the shared diagnostic layout.
type diagGrammar struct {
	kind    Kind
	sum     *regexp.Regexp
	garbage *regexp.Regexp
	end     *regexp.Regexp
	rule    *regexp.Regexp // extracts a rule id from the message
}

var (
	swiftBuildGrammar = diagGrammar{
		kind:    KindSwiftBuild,
		sum:     regexp.MustCompile(`^(error: fatalError|Build complete!|error: build had|Compiling .* failed)`),
		garbage: regexp.MustCompile(`^\[\d+/\d+\] |^Building for |^Fetching |^Computing version|^Write swift-version`),
		end:     regexp.MustCompile(`^\S+\.swift$|^In file included from `),
	}
	swiftLintGrammar = diagGrammar{
		kind:    KindSwiftLint,
		sum:     regexp.MustCompile(`^Done linting!`),
		garbage: regexp.MustCompile(`^Linting '|^Linting Swift files|^Loading configuration`),
		rule:    regexp.MustCompile(`\(([\w_]+)\)\s*$`),
	}
	cppGrammar = diagGrammar{
		kind:    KindCpp,
		sum:     regexp.MustCompile(`^\d+ (errors?|warnings?)( and \d+ (errors?|warnings?))? generated\.|^make(\[\d+\])?: \*\*\*|^ninja: build stopped|^compilation terminated\.`),
		garbage: regexp.MustCompile(`^\[\s*\d+%\]|^\[\d+/\d+\] |^make(\[\d+\])?: (Entering|Leaving) directory|^-- `),
		end:     regexp.MustCompile(`^\S+: In (function|member function|constructor|destructor|instantiation of) |^In file included from |^\S+: At top level:`),
	}
)

// diagRecognizer classifies compiler-like diagnostics following a grammar.
// Notes are attached to the item they follow.
type diagRecognizer struct {
	grammar diagGrammar
}

func (r *diagRecognizer) recognize(l output.Line) []classified {
	g := r.grammar
	content := l.Content
	raw := content.Raw()
	if m := diagLineRe.FindStringSubmatch(raw); m != nil {
		var kind report.Kind
		switch m[4] {
		case "note", "remark":
			return emit(normal(), content)
		case "warning":
			kind = report.KindWarning
		default:
			kind = report.KindError
		}
		if strings.TrimSpace(m[5]) == "" {
			warn(g.kind, "diagnostic with an empty message", content)
		}
		code := ""
		if g.rule != nil {
			if rm := g.rule.FindStringSubmatch(m[5]); rm != nil {
				code = rm[1]
			}
		}
		head := diagTitle(kind, code, content, m[4]+": ", m[5])
		return []classified{
			{LineAnalysis: title(kind), Content: head},
			{LineAnalysis: location(), Content: synthLocation(m[1], m[2], m[3])},
		}
	}
	switch {
	case g.sum != nil && g.sum.MatchString(raw):
		return emit(title(report.KindSum), content)
	case g.garbage != nil && g.garbage.MatchString(raw):
		return emit(garbage(), content)
	case g.end != nil && g.end.MatchString(raw):
		return emit(sectionEnd(), content)
	}
	return emit(normal(), content)
}
