package types

import (
	"fmt"
)

// Label returns a user-friendly label for a TypeID, spelled the way the
// dialect prints it: i32, f64, bool, char, !bril.ptr<i32>.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 16 {
		return "..."
	}
	if typesIn == nil {
		return "?"
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return fmt.Sprintf("i%d", tt.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindPointer:
		return "!bril.ptr<" + labelDepth(typesIn, tt.Elem, depth+1) + ">"
	case KindOpaque:
		name, ok := typesIn.OpaqueName(id)
		if !ok {
			return "!?"
		}
		return "!" + name
	default:
		return tt.Kind.String()
	}
}
