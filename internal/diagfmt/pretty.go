package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"bril/internal/diag"
)

// palette держит цвета, отключённые целиком, если Color=false.
type palette struct {
	loc, err, warn, info, code, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		loc:  color.New(color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		code: color.New(color.FgHiBlack),
		note: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.loc, p.err, p.warn, p.info, p.code, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: '<op>' op <Message>
// затем Notes с отступом.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)

	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}

	for i := range n {
		d := items[i]
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(formatLoc(d.Primary, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Text(),
		)
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			var b strings.Builder
			b.WriteString("    ")
			b.WriteString(p.note.Sprint("note"))
			if note.Loc.Known() && note.Loc != d.Primary {
				b.WriteString(" (")
				b.WriteString(formatLoc(note.Loc, opts.PathMode, opts.BaseDir))
				b.WriteString(")")
			}
			b.WriteString(": ")
			b.WriteString(note.Msg)
			b.WriteByte('\n')
			io.WriteString(w, b.String())
		}
	}

	if hidden := len(items) - n; hidden > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", hidden)
	}
}
