package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultLocationFormat is the line template used by WriteLocations when
// none is configured.
const DefaultLocationFormat = "{kind} {path}:{line}:{column} {message}"

// LocationEntry is the first source location of an item.
type LocationEntry struct {
	Kind     Kind
	Location Location
	Message  string
	DiagType string
}

// Locations returns one entry per item that has a location line.
func (r *Report) Locations() []LocationEntry {
	var out []LocationEntry
	for idx := 1; idx <= r.ItemCount(); idx++ {
		lines := r.ItemLines(idx)
		if len(lines) == 0 || !lines[0].Type.IsTitle() {
			continue
		}
		for _, l := range lines[1:] {
			loc, ok := l.Location()
			if !ok {
				continue
			}
			out = append(out, LocationEntry{
				Kind:     lines[0].Type.Kind,
				Location: loc,
				Message:  lines[0].Message(),
				DiagType: r.ItemDiagType(idx),
			})
			break
		}
	}
	return out
}

// WriteLocations writes one line per location entry, expanding the
// {kind} {path} {line} {column} {message} and {diag_type} placeholders.
func (r *Report) WriteLocations(w io.Writer, format string) error {
	if format == "" {
		format = DefaultLocationFormat
	}
	for _, e := range r.Locations() {
		rep := strings.NewReplacer(
			"{kind}", e.Kind.String(),
			"{path}", e.Location.Path,
			"{line}", strconv.Itoa(e.Location.Line),
			"{column}", strconv.Itoa(e.Location.Column),
			"{message}", e.Message,
			"{diag_type}", e.DiagType,
		)
		if _, err := fmt.Fprintln(w, rep.Replace(format)); err != nil {
			return fmt.Errorf("write location: %w", err)
		}
	}
	return nil
}
