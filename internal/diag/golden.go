package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bril/internal/ir"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Loc      ir.Location
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by the CLI short output and by golden files. Entries are
// sorted deterministically and returned as a single string (empty when nothing
// remains). Notes follow their diagnostic when includeNotes is set.
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	groups := make([][]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		groups = append(groups, renderDiagnostic(d, includeNotes))
	}

	// notes stay attached to their diagnostic, so whole groups are sorted
	sort.SliceStable(groups, func(i, j int) bool {
		di, dj := groups[i][0], groups[j][0]
		if di.Loc != dj.Loc {
			return di.Loc.Less(dj.Loc)
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for _, group := range groups {
		for _, d := range group {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code, d.Loc.String(), d.Message)
		}
	}
	return b.String()
}

func renderDiagnostic(d Diagnostic, includeNotes bool) []goldenDiagnostic {
	out := []goldenDiagnostic{{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Loc:      normalizeLoc(d.Primary),
		Message:  sanitizeMessage(d.Text()),
	}}

	if includeNotes {
		for _, note := range d.Notes {
			loc := note.Loc
			if !loc.Known() {
				loc = d.Primary
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Loc:      normalizeLoc(loc),
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

func normalizeLoc(loc ir.Location) ir.Location {
	if loc.File == "" {
		return loc
	}
	p := filepath.ToSlash(loc.File)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	loc.File = p
	return loc
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
