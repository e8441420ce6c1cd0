package diag

import "bril/internal/ir"

func New(sev Severity, code Code, primary ir.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
	}
}

func NewError(code Code, primary ir.Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithOp(op string) Diagnostic {
	d.Op = op
	return d
}

func (d Diagnostic) WithNote(loc ir.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
