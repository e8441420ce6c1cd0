package types

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Opaque interns a named type this package never decomposes, such as a type
// owned by another dialect. Names are compared after NFC normalisation.
func (in *Interner) Opaque(name string) TypeID {
	if name == "" {
		return NoTypeID
	}
	name = norm.NFC.String(name)
	slot, ok := in.names[name]
	if !ok {
		slot = in.appendOpaqueName(name)
	}
	return in.Intern(Type{Kind: KindOpaque, Payload: slot})
}

// OpaqueName returns the name of an opaque type.
func (in *Interner) OpaqueName(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindOpaque {
		return "", false
	}
	if int(tt.Payload) >= len(in.opaques) {
		return "", false
	}
	return in.opaques[tt.Payload], true
}

func (in *Interner) appendOpaqueName(name string) uint32 {
	in.opaques = append(in.opaques, name)
	slot, err := safecast.Conv[uint32](len(in.opaques) - 1)
	if err != nil {
		panic(fmt.Errorf("opaque name overflow: %w", err))
	}
	in.names[name] = slot
	return slot
}
