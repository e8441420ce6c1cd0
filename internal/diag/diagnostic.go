package diag

import (
	"bril/internal/ir"
)

type Note struct {
	Loc ir.Location
	Msg string
}

// Diagnostic is a verification finding attached to one operation.
// Op holds the qualified operation name ("bril.load"), empty for findings
// that are not about a single operation.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Op       string
	Primary  ir.Location
	Notes    []Note
}

// Text renders the message the way the dialect prefixes op errors:
// 'bril.load' op <message>.
func (d Diagnostic) Text() string {
	if d.Op == "" {
		return d.Message
	}
	return "'" + d.Op + "' op " + d.Message
}
