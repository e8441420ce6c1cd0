package ir

import "bril/internal/types"

type Block struct {
	Label string
	Ops   []Op
}

type Func struct {
	Name   string
	Loc    Location
	Blocks []Block
}

// Module owns the interner every Value.Type in it refers to.
type Module struct {
	Name  string
	Types *types.Interner
	Funcs []*Func
}

// NewModule creates an empty module with a fresh interner.
func NewModule(name string) *Module {
	return &Module{Name: name, Types: types.NewInterner()}
}

// OpCount returns the number of operations across all functions.
func (m *Module) OpCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, f := range m.Funcs {
		n += f.OpCount()
	}
	return n
}

func (f *Func) OpCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for i := range f.Blocks {
		n += len(f.Blocks[i].Ops)
	}
	return n
}
