package ir

import "fmt"

// Location points at the source an operation was built from.
// The zero value is an unknown location.
type Location struct {
	File string
	Line uint32 // 1-based, 0 when unknown
	Col  uint32 // 1-based, 0 when unknown
}

// Known reports whether the location carries a file.
func (l Location) Known() bool {
	return l.File != ""
}

func (l Location) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Col == 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Less orders locations by file, line and column.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Col < other.Col
}
