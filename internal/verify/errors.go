package verify

import (
	"errors"

	"bril/internal/diag"
	"bril/internal/ir"
)

// Kinds of verification failure. Every *Error unwraps to exactly one of them.
var (
	// ErrOperandNotPointer: the 'ptr' operand's type is not a pointer type.
	ErrOperandNotPointer = errors.New("operand is not a pointer")
	// ErrPointeeMismatch: the result (load) or value (store) type differs
	// from the pointee type of the 'ptr' operand.
	ErrPointeeMismatch = errors.New("type does not match pointee type")
	// ErrMalformedOp: the operation does not have the operand/result arity
	// its kind requires, so its typed view cannot be formed.
	ErrMalformedOp = errors.New("malformed operation")
)

const (
	MsgOperandNotPointer    = "expected 'ptr' type for 'ptr' operand"
	MsgLoadPointeeMismatch  = "result type must match pointee type of pointer"
	MsgStorePointeeMismatch = "value type must match pointee type of pointer"
)

// Error is the verdict of a failed check on one operation.
type Error struct {
	Kind    error
	Op      ir.OpKind
	Loc     ir.Location
	Message string
	Notes   []string
}

// Error renders the message with the operation prefix, e.g.
// 'bril.load' op expected 'ptr' type for 'ptr' operand.
func (e *Error) Error() string {
	return "'" + e.Op.String() + "' op " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Code maps the failure kind to its diagnostic code.
func (e *Error) Code() diag.Code {
	switch {
	case errors.Is(e.Kind, ErrOperandNotPointer):
		return diag.VerOperandNotPointer
	case errors.Is(e.Kind, ErrPointeeMismatch):
		return diag.VerPointeeMismatch
	case errors.Is(e.Kind, ErrMalformedOp):
		return diag.VerMalformedOp
	}
	return diag.UnknownCode
}

// Diagnostic converts the failure into an error diagnostic attached to the
// operation's location.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code(), e.Loc, e.Message).WithOp(e.Op.String())
	for _, n := range e.Notes {
		d = d.WithNote(e.Loc, n)
	}
	return d
}

// AsError unwraps err into *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
