package ir

import (
	"testing"

	"bril/internal/types"
)

func TestOpKindNamesRoundTrip(t *testing.T) {
	kinds := OpKinds()
	if len(kinds) != 27 {
		t.Fatalf("expected 27 bril operations, got %d", len(kinds))
	}
	for _, k := range kinds {
		got, ok := LookupOpKind(k.String())
		if !ok || got != k {
			t.Fatalf("LookupOpKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
}

func TestLookupOpKind(t *testing.T) {
	tests := []struct {
		name string
		want OpKind
		ok   bool
	}{
		{"bril.load", OpLoad, true},
		{"load", OpLoad, true},
		{"bril.ptr_add", OpPtrAdd, true},
		{"bril.addd", OpInvalid, false},
		{"bril.nonexistent", OpInvalid, false},
		{"bril.invalid", OpInvalid, false},
		{"", OpInvalid, false},
	}
	for _, tt := range tests {
		got, ok := LookupOpKind(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LookupOpKind(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAsLoadAsStore(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Int(types.Width32)
	ptr := Value{Name: "p", Type: in.Pointer(i32)}
	v := Value{Name: "v", Type: i32}

	load := &Op{Kind: OpLoad, Operands: []Value{ptr}, Results: []Value{v}}
	if l, ok := load.AsLoad(); !ok || l.Ptr != ptr || l.Result != v {
		t.Fatalf("AsLoad() = %+v, %v", l, ok)
	}
	if _, ok := load.AsStore(); ok {
		t.Fatalf("a load must not have a store view")
	}

	store := &Op{Kind: OpStore, Operands: []Value{ptr, v}}
	if s, ok := store.AsStore(); !ok || s.Ptr != ptr || s.Value != v {
		t.Fatalf("AsStore() = %+v, %v", s, ok)
	}

	malformed := &Op{Kind: OpLoad, Operands: []Value{ptr, v}, Results: []Value{v}}
	if _, ok := malformed.AsLoad(); ok {
		t.Fatalf("a load with two operands must not have a load view")
	}
	var nilOp *Op
	if _, ok := nilOp.AsStore(); ok {
		t.Fatalf("nil op must not have a store view")
	}
}

func TestBuilderAndOpCount(t *testing.T) {
	m := NewModule("test")
	i64 := m.Types.Builtins().Int
	fb := m.AddFunc("main", Location{File: "main.bril", Line: 1, Col: 1})
	size := Value{Name: "n", Type: i64}
	ptr := fb.Alloc(size, "p", i64, Location{})
	fb.Store(ptr, size, Location{})
	fb.Block("exit")
	fb.Load(ptr, Value{Name: "x", Type: i64}, Location{})

	f := fb.Func()
	if len(f.Blocks) != 2 || f.Blocks[0].Label != "entry" || f.Blocks[1].Label != "exit" {
		t.Fatalf("unexpected blocks: %+v", f.Blocks)
	}
	if got := m.OpCount(); got != 3 {
		t.Fatalf("OpCount = %d, want 3", got)
	}
	if !types.IsPointer(m.Types, ptr.Type) {
		t.Fatalf("alloc must produce a pointer")
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{}, "<unknown>"},
		{Location{File: "a.bril"}, "a.bril"},
		{Location{File: "a.bril", Line: 3}, "a.bril:3"},
		{Location{File: "a.bril", Line: 3, Col: 7}, "a.bril:3:7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !(Location{File: "a", Line: 1}).Less(Location{File: "a", Line: 2}) {
		t.Errorf("Less must order by line")
	}
}
