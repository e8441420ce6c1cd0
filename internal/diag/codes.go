package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Верификация операций
	VerInfo              Code = 1000
	VerOperandNotPointer Code = 1001
	VerPointeeMismatch   Code = 1002
	VerMalformedOp       Code = 1003

	// IO errors
	IOInfo               Code = 4000
	IOSnapshotUnreadable Code = 4001
	IOSnapshotInvalid    Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	VerInfo:              "Verifier information",
	VerOperandNotPointer: "Operand is not a pointer",
	VerPointeeMismatch:   "Type does not match pointee type",
	VerMalformedOp:       "Malformed operation",
	IOInfo:               "IO information",
	IOSnapshotUnreadable: "Snapshot cannot be read",
	IOSnapshotInvalid:    "Snapshot is invalid",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
