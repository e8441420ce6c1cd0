package ir

import "bril/internal/types"

// FuncBuilder appends operations to a function under construction.
// Ops go to the most recently opened block; one named "entry" is opened
// implicitly on the first append.
type FuncBuilder struct {
	m *Module
	f *Func
}

// AddFunc appends a new function to m and returns a builder for it.
func (m *Module) AddFunc(name string, loc Location) *FuncBuilder {
	f := &Func{Name: name, Loc: loc}
	m.Funcs = append(m.Funcs, f)
	return &FuncBuilder{m: m, f: f}
}

// Func returns the function being built.
func (b *FuncBuilder) Func() *Func {
	return b.f
}

// Block opens a new block; subsequent ops are appended to it.
func (b *FuncBuilder) Block(label string) *FuncBuilder {
	b.f.Blocks = append(b.f.Blocks, Block{Label: label})
	return b
}

// Op appends a generic operation. The returned pointer is valid until the
// next append to the same block.
func (b *FuncBuilder) Op(kind OpKind, operands, results []Value, loc Location) *Op {
	if len(b.f.Blocks) == 0 {
		b.Block("entry")
	}
	bb := &b.f.Blocks[len(b.f.Blocks)-1]
	bb.Ops = append(bb.Ops, Op{Kind: kind, Operands: operands, Results: results, Loc: loc})
	return &bb.Ops[len(bb.Ops)-1]
}

// Load appends %result = bril.load %ptr.
func (b *FuncBuilder) Load(ptr, result Value, loc Location) *Op {
	return b.Op(OpLoad, []Value{ptr}, []Value{result}, loc)
}

// Store appends bril.store %ptr, %value.
func (b *FuncBuilder) Store(ptr, value Value, loc Location) *Op {
	return b.Op(OpStore, []Value{ptr, value}, nil, loc)
}

// Alloc appends %ptr = bril.alloc %size producing !bril.ptr<elem>.
func (b *FuncBuilder) Alloc(size Value, name string, elem types.TypeID, loc Location) Value {
	ptr := Value{Name: name, Type: b.m.Types.Pointer(elem)}
	b.Op(OpAlloc, []Value{size}, []Value{ptr}, loc)
	return ptr
}
