package types

// Pointee returns the nested pointee type when id is a pointer type.
// For any other type it reports absence; this is a type test, not a check.
func Pointee(in *Interner, id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindPointer {
		return NoTypeID, false
	}
	return tt.Elem, true
}

// IsPointer reports whether id denotes a pointer type.
func IsPointer(in *Interner, id TypeID) bool {
	_, ok := Pointee(in, id)
	return ok
}

// Depth counts how many pointer levels wrap id.
func Depth(in *Interner, id TypeID) int {
	n := 0
	for {
		elem, ok := Pointee(in, id)
		if !ok {
			return n
		}
		n++
		id = elem
	}
}
