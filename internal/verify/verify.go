package verify

import (
	"fmt"

	"bril/internal/ir"
	"bril/internal/types"
)

// Func verifies a single operation of the kind it is registered for.
// It must be pure: read the op and the interner, return nil or an *Error.
type Func func(in *types.Interner, op *ir.Op) error

// verifiers maps each op kind that has custom checks to its verifier.
// Kinds without an entry are accepted as-is.
var verifiers = map[ir.OpKind]Func{
	ir.OpLoad:  verifyLoadOp,
	ir.OpStore: verifyStoreOp,
}

// HasVerifier reports whether kind has a custom verifier.
func HasVerifier(kind ir.OpKind) bool {
	_, ok := verifiers[kind]
	return ok
}

// VerifyOp runs the verifier registered for op's kind.
// It returns nil for kinds without a verifier.
func VerifyOp(in *types.Interner, op *ir.Op) error {
	if op == nil {
		return nil
	}
	fn, ok := verifiers[op.Kind]
	if !ok {
		return nil
	}
	return fn(in, op)
}

// VerifyLoad checks %result = bril.load %ptr given the resolved types.
//
// The pointer check runs first; the result type is only inspected when ptr
// is a pointer.
func VerifyLoad(in *types.Interner, ptr, result types.TypeID) error {
	return checkPointee(in, ir.OpLoad, ptr, result, "result", MsgLoadPointeeMismatch)
}

// VerifyStore checks bril.store %ptr, %value given the resolved types.
func VerifyStore(in *types.Interner, ptr, value types.TypeID) error {
	return checkPointee(in, ir.OpStore, ptr, value, "value", MsgStorePointeeMismatch)
}

func checkPointee(in *types.Interner, kind ir.OpKind, ptr, got types.TypeID, role, mismatch string) error {
	pointee, ok := types.Pointee(in, ptr)
	if !ok {
		return &Error{
			Kind:    ErrOperandNotPointer,
			Op:      kind,
			Message: MsgOperandNotPointer,
			Notes:   []string{"'ptr' operand has type " + types.Label(in, ptr)},
		}
	}
	// interned ids are equal iff the descriptors are structurally equal
	if got != pointee {
		return &Error{
			Kind:    ErrPointeeMismatch,
			Op:      kind,
			Message: mismatch,
			Notes: []string{
				fmt.Sprintf("pointer has type %s with pointee %s", types.Label(in, ptr), types.Label(in, pointee)),
				fmt.Sprintf("%s has type %s", role, types.Label(in, got)),
			},
		}
	}
	return nil
}

func verifyLoadOp(in *types.Interner, op *ir.Op) error {
	l, ok := op.AsLoad()
	if !ok {
		return malformed(op, 1, 1)
	}
	return located(VerifyLoad(in, l.Ptr.Type, l.Result.Type), op.Loc)
}

func verifyStoreOp(in *types.Interner, op *ir.Op) error {
	s, ok := op.AsStore()
	if !ok {
		return malformed(op, 2, 0)
	}
	return located(VerifyStore(in, s.Ptr.Type, s.Value.Type), op.Loc)
}

func malformed(op *ir.Op, operands, results int) error {
	return &Error{
		Kind: ErrMalformedOp,
		Op:   op.Kind,
		Loc:  op.Loc,
		Message: fmt.Sprintf("expected %d operand(s) and %d result(s), found %d and %d",
			operands, results, len(op.Operands), len(op.Results)),
	}
}

func located(err error, loc ir.Location) error {
	if e, ok := err.(*Error); ok {
		e.Loc = loc
	}
	return err
}
