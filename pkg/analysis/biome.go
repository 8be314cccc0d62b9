package analysis

import (
	"regexp"

	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/report"
	"github.com/dkoosis/fowatch/pkg/tty"
)

var (
	biomeHeaderRe   = regexp.MustCompile(`^\s*(\S+?):(\d+):(\d+)\s+(\S+).*━`)
	biomeSeverityRe = regexp.MustCompile(`^\s*(✖|×|⚠|ℹ|!)\s+\S`)
	biomeSumRe      = regexp.MustCompile(`^\s*(Checked|Found|Fixed|Skipped) \d+`)
)

// biomeRecognizer reads biome's console reporter. The header carrying the
// position comes first, then the line with the severity glyph, which is
// used as the title followed by the held position.
type biomeRecognizer struct {
	pending tty.Line
	has     bool
}

func (r *biomeRecognizer) recognize(l output.Line) []classified {
	content := l.Content
	raw := content.Raw()
	if m := biomeHeaderRe.FindStringSubmatch(raw); m != nil {
		r.pending = synthLocation(m[1], m[2], m[3])
		r.has = true
		return emit(sectionEnd(), content)
	}
	if m := biomeSeverityRe.FindStringSubmatch(raw); m != nil && r.has {
		kind := report.KindWarning
		if m[1] == "✖" || m[1] == "×" {
			kind = report.KindError
		}
		r.has = false
		return append(emit(title(kind), content),
			classified{LineAnalysis: location(), Content: r.pending})
	}
	if biomeSumRe.MatchString(raw) {
		return emit(title(report.KindSum), content)
	}
	return emit(normal(), content)
}
