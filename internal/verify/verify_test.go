package verify

import (
	"errors"
	"strings"
	"testing"

	"bril/internal/diag"
	"bril/internal/ir"
	"bril/internal/types"
)

func TestVerifyLoad(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	i64 := in.Int(types.Width64)
	f64 := in.Float(types.Width64)
	ptrI32 := in.Pointer(i32)
	ptrPtrI32 := in.Pointer(ptrI32)

	tests := []struct {
		name    string
		ptr     types.TypeID
		result  types.TypeID
		wantErr error
		wantMsg string
	}{
		{"pointer to i32", ptrI32, i32, nil, ""},
		{"nested pointer", ptrPtrI32, ptrI32, nil, ""},
		{"operand is i32", i32, i32, ErrOperandNotPointer, MsgOperandNotPointer},
		{"operand is i32 result mismatching", i32, f64, ErrOperandNotPointer, MsgOperandNotPointer},
		{"result f64", ptrI32, f64, ErrPointeeMismatch, MsgLoadPointeeMismatch},
		{"result i64 width differs", ptrI32, i64, ErrPointeeMismatch, MsgLoadPointeeMismatch},
		{"nesting is not flattened", ptrPtrI32, i32, ErrPointeeMismatch, MsgLoadPointeeMismatch},
		{"result is the pointer itself", ptrI32, ptrI32, ErrPointeeMismatch, MsgLoadPointeeMismatch},
		{"invalid operand", types.NoTypeID, i32, ErrOperandNotPointer, MsgOperandNotPointer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyLoad(in, tt.ptr, tt.result)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			e, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", e.Message, tt.wantMsg)
			}
			if e.Op != ir.OpLoad {
				t.Fatalf("op = %v, want bril.load", e.Op)
			}
		})
	}
}

func TestVerifyStore(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	boolT := in.Bool()
	ptrI32 := in.Pointer(i32)
	ptrPtrI32 := in.Pointer(ptrI32)
	ptrBool := in.Pointer(boolT)

	tests := []struct {
		name    string
		ptr     types.TypeID
		value   types.TypeID
		wantErr error
		wantMsg string
	}{
		{"store bool", ptrBool, boolT, nil, ""},
		{"store pointer into pointer-to-pointer", ptrPtrI32, ptrI32, nil, ""},
		{"value i32 into bool pointer", ptrBool, i32, ErrPointeeMismatch, MsgStorePointeeMismatch},
		{"value i32 into pointer-to-pointer", ptrPtrI32, i32, ErrPointeeMismatch, MsgStorePointeeMismatch},
		{"operand is bool", boolT, boolT, ErrOperandNotPointer, MsgOperandNotPointer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyStore(in, tt.ptr, tt.value)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			e, _ := AsError(err)
			if e.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestNonPointerShortCircuits(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	f64 := in.Float(types.Width64)

	err := VerifyLoad(in, i32, f64)
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if errors.Is(err, ErrPointeeMismatch) {
		t.Fatalf("pointee check must not run when ptr is not a pointer")
	}
	if len(e.Notes) != 1 || strings.Contains(e.Notes[0], "f64") {
		t.Fatalf("notes must only describe the pointer operand: %v", e.Notes)
	}
}

func TestOpaquePointee(t *testing.T) {
	in := types.NewInterner()
	node := in.Opaque("node")
	ptr := in.Pointer(node)

	if err := VerifyLoad(in, ptr, in.Opaque("node")); err != nil {
		t.Fatalf("same opaque name must match: %v", err)
	}
	if err := VerifyLoad(in, ptr, in.Opaque("edge")); !errors.Is(err, ErrPointeeMismatch) {
		t.Fatalf("different opaque name must mismatch, got %v", err)
	}
}

func TestVerifyIsDeterministic(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	f64 := in.Float(types.Width64)
	ptr := in.Pointer(i32)

	first := VerifyLoad(in, ptr, f64)
	for range 10 {
		again := VerifyLoad(in, ptr, f64)
		if first.Error() != again.Error() {
			t.Fatalf("verdict changed: %q vs %q", first, again)
		}
	}
	if types.Label(in, ptr) != "!bril.ptr<i32>" {
		t.Fatalf("verification must not disturb the interner")
	}
}

func TestErrorText(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	f64 := in.Float(types.Width64)
	ptr := in.Pointer(i32)

	tests := []struct {
		err  error
		want string
	}{
		{VerifyLoad(in, i32, i32), "'bril.load' op expected 'ptr' type for 'ptr' operand"},
		{VerifyLoad(in, ptr, f64), "'bril.load' op result type must match pointee type of pointer"},
		{VerifyStore(in, ptr, f64), "'bril.store' op value type must match pointee type of pointer"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorDiagnostic(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	f64 := in.Float(types.Width64)
	ptr := in.Pointer(i32)
	loc := ir.Location{File: "main.bril", Line: 4, Col: 3}

	op := &ir.Op{
		Kind:     ir.OpLoad,
		Operands: []ir.Value{{Name: "p", Type: ptr}},
		Results:  []ir.Value{{Name: "x", Type: f64}},
		Loc:      loc,
	}
	err := VerifyOp(in, op)
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	d := e.Diagnostic()
	if d.Code != diag.VerPointeeMismatch || d.Severity != diag.SevError {
		t.Fatalf("unexpected code/severity: %v %v", d.Code, d.Severity)
	}
	if d.Primary != loc || d.Op != "bril.load" {
		t.Fatalf("diagnostic not attached to op: %+v", d)
	}
	want := []string{"pointer has type !bril.ptr<i32> with pointee i32", "result has type f64"}
	if len(d.Notes) != len(want) {
		t.Fatalf("notes = %+v", d.Notes)
	}
	for i, n := range d.Notes {
		if n.Msg != want[i] || n.Loc != loc {
			t.Errorf("note %d = %+v, want %q at %v", i, n, want[i], loc)
		}
	}
}

func TestVerifyOpDispatch(t *testing.T) {
	if !HasVerifier(ir.OpLoad) || !HasVerifier(ir.OpStore) {
		t.Fatalf("load and store must have verifiers")
	}
	for _, k := range ir.OpKinds() {
		if k == ir.OpLoad || k == ir.OpStore {
			continue
		}
		if HasVerifier(k) {
			t.Errorf("%s must not have a verifier", k)
		}
	}

	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	// operand types of unverified ops are never inspected
	add := &ir.Op{
		Kind:     ir.OpAdd,
		Operands: []ir.Value{{Name: "a", Type: i32}, {Name: "b", Type: in.Bool()}},
		Results:  []ir.Value{{Name: "c", Type: in.Float(types.Width64)}},
	}
	if err := VerifyOp(in, add); err != nil {
		t.Fatalf("bril.add must pass unchecked: %v", err)
	}
	if err := VerifyOp(in, nil); err != nil {
		t.Fatalf("nil op: %v", err)
	}
}

func TestVerifyOpMalformed(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	ptr := ir.Value{Name: "p", Type: in.Pointer(i32)}
	v := ir.Value{Name: "v", Type: i32}

	tests := []struct {
		name string
		op   *ir.Op
		want string
	}{
		{"load without result", &ir.Op{Kind: ir.OpLoad, Operands: []ir.Value{ptr}},
			"expected 1 operand(s) and 1 result(s), found 1 and 0"},
		{"load with two operands", &ir.Op{Kind: ir.OpLoad, Operands: []ir.Value{ptr, v}, Results: []ir.Value{v}},
			"expected 1 operand(s) and 1 result(s), found 2 and 1"},
		{"store with one operand", &ir.Op{Kind: ir.OpStore, Operands: []ir.Value{ptr}},
			"expected 2 operand(s) and 0 result(s), found 1 and 0"},
		{"store with result", &ir.Op{Kind: ir.OpStore, Operands: []ir.Value{ptr, v}, Results: []ir.Value{v}},
			"expected 2 operand(s) and 0 result(s), found 2 and 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyOp(in, tt.op)
			if !errors.Is(err, ErrMalformedOp) {
				t.Fatalf("got %v, want ErrMalformedOp", err)
			}
			e, _ := AsError(err)
			if e.Message != tt.want {
				t.Fatalf("message = %q, want %q", e.Message, tt.want)
			}
			if e.Code() != diag.VerMalformedOp {
				t.Fatalf("code = %v", e.Code())
			}
		})
	}
}
