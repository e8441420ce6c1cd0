package types

import "testing"

func TestLabel(t *testing.T) {
	in := NewInterner()
	i32 := in.Int(Width32)
	tests := []struct {
		id   TypeID
		want string
	}{
		{i32, "i32"},
		{in.Int(Width1), "i1"},
		{in.Float(Width64), "f64"},
		{in.Bool(), "bool"},
		{in.Char(), "char"},
		{in.Pointer(i32), "!bril.ptr<i32>"},
		{in.Pointer(in.Pointer(in.Bool())), "!bril.ptr<!bril.ptr<bool>>"},
		{in.Opaque("llvm.struct"), "!llvm.struct"},
		{NoTypeID, "?"},
	}
	for _, tt := range tests {
		if got := Label(in, tt.id); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestLabelNilInterner(t *testing.T) {
	if got := Label(nil, 3); got != "?" {
		t.Fatalf("Label(nil) = %q", got)
	}
}
