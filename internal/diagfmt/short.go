package diagfmt

import (
	"io"

	"bril/internal/diag"
)

// Short writes one line per diagnostic: "<sev> <CODE> <loc> <message>".
// The same rendering backs the golden files.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), includeNotes)
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return err
	}
	return nil
}
