package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event, e.g. one op verdict
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser: the
// level filter admits a prefix of this list.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI run over many snapshots
	ScopeModule                  // one snapshot / module
	ScopeFunc                    // one function of a module
	ScopeOp                      // one operation verdict
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeModule:
		return "module"
	case ScopeFunc:
		return "func"
	case ScopeOp:
		return "op"
	default:
		return "unknown"
	}
}

// Verdicts used as span end details by the verifier. Failures selects spans
// by them.
const (
	DetailOK        = "ok"
	DetailFailed    = "failed"
	DetailIOError   = "io error"
	DetailCancelled = "cancelled"
)

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number, assigned on emit
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "file:a.yaml", "func:main", "op:bril.load"
	Loc      string            // source location of the op or func, if known
	Detail   string            // verdict or message
	Extra    map[string]string // counters attached to span ends
}
