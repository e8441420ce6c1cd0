package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindInt
	KindFloat
	KindPointer
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	Width1  Width = 1
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Valid reports whether w is a legal width for kind k.
func (w Width) Valid(k Kind) bool {
	switch k {
	case KindInt:
		return w == Width1 || w == Width8 || w == Width16 || w == Width32 || w == Width64
	case KindFloat:
		return w == Width32 || w == Width64
	default:
		return w == 0
	}
}

// Type is a compact descriptor for any supported type.
//
// Descriptors are compared structurally: two pointer descriptors are the same
// type iff their Elem ids are, and the interner guarantees that Elem ids are
// equal iff the pointee descriptors are.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointee for KindPointer
	Width   Width  // for numeric primitives
	Payload uint32 // opaque name slot
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signless integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakePointer describes !bril.ptr<elem>.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}
