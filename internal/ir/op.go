package ir

import (
	"fmt"

	"bril/internal/types"
)

// OpKind enumerates the operations of the bril dialect.
type OpKind uint8

const (
	// OpInvalid is the zero value and never names a real operation.
	OpInvalid OpKind = iota

	// arithmetic
	OpConst
	OpAdd
	OpSub
	OpMul
	OpDiv

	// comparison
	OpEq
	OpLt
	OpGt
	OpLe
	OpGe

	// logic
	OpNot
	OpAnd
	OpOr

	// utility
	OpID
	OpUndef
	OpNop
	OpPrint

	// memory
	OpAlloc
	OpFree
	OpStore
	OpLoad
	OpPtrAdd

	// control flow
	OpCall
	OpJmp
	OpBr
	OpFunc
	OpRet

	opKindCount
)

var opNames = [opKindCount]string{
	OpInvalid: "bril.invalid",
	OpConst:   "bril.const",
	OpAdd:     "bril.add",
	OpSub:     "bril.sub",
	OpMul:     "bril.mul",
	OpDiv:     "bril.div",
	OpEq:      "bril.eq",
	OpLt:      "bril.lt",
	OpGt:      "bril.gt",
	OpLe:      "bril.le",
	OpGe:      "bril.ge",
	OpNot:     "bril.not",
	OpAnd:     "bril.and",
	OpOr:      "bril.or",
	OpID:      "bril.id",
	OpUndef:   "bril.undef",
	OpNop:     "bril.nop",
	OpPrint:   "bril.print",
	OpAlloc:   "bril.alloc",
	OpFree:    "bril.free",
	OpStore:   "bril.store",
	OpLoad:    "bril.load",
	OpPtrAdd:  "bril.ptr_add",
	OpCall:    "bril.call",
	OpJmp:     "bril.jmp",
	OpBr:      "bril.br",
	OpFunc:    "bril.func",
	OpRet:     "bril.ret",
}

var opByName = func() map[string]OpKind {
	m := make(map[string]OpKind, len(opNames))
	for k := OpKind(1); k < opKindCount; k++ {
		m[opNames[k]] = k
	}
	return m
}()

// String returns the qualified operation name, e.g. "bril.load".
func (k OpKind) String() string {
	if k < opKindCount {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", k)
}

// Valid reports whether k names a dialect operation.
func (k OpKind) Valid() bool {
	return k > OpInvalid && k < opKindCount
}

// LookupOpKind resolves a qualified ("bril.load") or bare ("load") name.
func LookupOpKind(name string) (OpKind, bool) {
	if k, ok := opByName[name]; ok {
		return k, true
	}
	k, ok := opByName["bril."+name]
	return k, ok
}

// OpKinds returns every dialect operation in declaration order.
func OpKinds() []OpKind {
	out := make([]OpKind, 0, opKindCount-1)
	for k := OpKind(1); k < opKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Value is an SSA value with its resolved type.
type Value struct {
	Name string
	Type types.TypeID
}

// Op is a single operation with already-resolved operand and result types.
type Op struct {
	Kind     OpKind
	Operands []Value
	Results  []Value
	Loc      Location
}

// Load is the typed view of a bril.load operation.
type Load struct {
	Ptr    Value
	Result Value
}

// Store is the typed view of a bril.store operation.
type Store struct {
	Ptr   Value
	Value Value
}

// AsLoad returns the load view of op. It fails when op is not a load or does
// not have exactly one operand and one result.
func (op *Op) AsLoad() (Load, bool) {
	if op == nil || op.Kind != OpLoad || len(op.Operands) != 1 || len(op.Results) != 1 {
		return Load{}, false
	}
	return Load{Ptr: op.Operands[0], Result: op.Results[0]}, true
}

// AsStore returns the store view of op. It fails when op is not a store or
// does not have exactly two operands and no results.
func (op *Op) AsStore() (Store, bool) {
	if op == nil || op.Kind != OpStore || len(op.Operands) != 2 || len(op.Results) != 0 {
		return Store{}, false
	}
	return Store{Ptr: op.Operands[0], Value: op.Operands[1]}, true
}
