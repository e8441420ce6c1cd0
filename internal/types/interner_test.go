package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Bool == NoTypeID || b.Int == NoTypeID || b.Float == NoTypeID || b.Char == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	i64, _ := in.Lookup(b.Int)
	if i64.Kind != KindInt || i64.Width != Width64 {
		t.Fatalf("expected i64 builtin, got %v/%d", i64.Kind, i64.Width)
	}
	if in.Int(Width64) != b.Int {
		t.Fatalf("re-interning i64 must return the builtin id")
	}
}

func TestInternerDeduplicatesPointers(t *testing.T) {
	in := NewInterner()
	p1 := in.Pointer(in.Int(Width32))
	p2 := in.Intern(MakePointer(in.Int(Width32)))
	if p1 != p2 {
		t.Fatalf("pointer types should be deduplicated")
	}
	if in.Pointer(in.Int(Width16)) == p1 {
		t.Fatalf("pointers with different pointees must differ")
	}
}

func TestNestedPointersAreNotFlattened(t *testing.T) {
	in := NewInterner()
	i32 := in.Int(Width32)
	p := in.Pointer(i32)
	pp := in.Pointer(p)
	if pp == p || pp == i32 || p == i32 {
		t.Fatalf("pointer nesting collapsed: i32=%d ptr=%d ptr<ptr>=%d", i32, p, pp)
	}
	inner, ok := Pointee(in, pp)
	if !ok || inner != p {
		t.Fatalf("Pointee(ptr<ptr<i32>>) = %d, %v; want %d", inner, ok, p)
	}
	if got := Depth(in, pp); got != 2 {
		t.Fatalf("Depth = %d, want 2", got)
	}
}

func TestPointeeOnNonPointer(t *testing.T) {
	in := NewInterner()
	for _, id := range []TypeID{in.Bool(), in.Char(), in.Int(Width32), in.Float(Width64), in.Opaque("llvm.struct"), NoTypeID, TypeID(999)} {
		if elem, ok := Pointee(in, id); ok || elem != NoTypeID {
			t.Fatalf("Pointee(%s) = %d, %v; want absence", Label(in, id), elem, ok)
		}
		if IsPointer(in, id) {
			t.Fatalf("IsPointer(%s) = true", Label(in, id))
		}
	}
}

func TestOpaqueNamesNormalised(t *testing.T) {
	in := NewInterner()
	composed := in.Opaque("caf\u00e9")
	decomposed := in.Opaque("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("canonically equivalent opaque names must share an id")
	}
	if in.Opaque("other") == composed {
		t.Fatalf("distinct opaque names must differ")
	}
	if in.Opaque("") != NoTypeID {
		t.Fatalf("empty opaque name must not intern")
	}
}

func TestWidthValid(t *testing.T) {
	cases := []struct {
		kind  Kind
		width Width
		want  bool
	}{
		{KindInt, Width1, true},
		{KindInt, Width64, true},
		{KindInt, 7, false},
		{KindFloat, Width32, true},
		{KindFloat, Width16, false},
		{KindBool, 0, true},
		{KindBool, Width8, false},
	}
	for _, tc := range cases {
		if got := tc.width.Valid(tc.kind); got != tc.want {
			t.Errorf("Width(%d).Valid(%v) = %v, want %v", tc.width, tc.kind, got, tc.want)
		}
	}
}
