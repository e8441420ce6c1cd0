package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. It backs the "ring"
// and "both" storage modes: nothing is written until Dump is called, on a
// panic or after a failed verification.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	start int // index of the oldest event
	n     int // events stored, <= len(buf)
	level Level
}

// NewRingTracer creates a RingTracer holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, evicting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = stored
		t.n++
	} else {
		t.buf[t.start] = stored
		t.start = (t.start + 1) % len(t.buf)
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, t.n)
	for i := range t.n {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Dump writes every stored event to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

// DumpFailures writes only the events of failed spans, see Failures.
// It reports how many events were written.
func (t *RingTracer) DumpFailures(w io.Writer, format Format) (int, error) {
	events := Failures(t.Snapshot())
	return len(events), writeEvents(w, events, format)
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// Failures selects, in order, the events of spans that ended with
// DetailFailed or DetailIOError together with the events directly under
// them (per-function spans and op verdicts). Spans whose end was already
// evicted from the ring are not selected.
func Failures(events []Event) []Event {
	failed := make(map[uint64]struct{})
	for i := range events {
		ev := &events[i]
		if ev.Kind == KindSpanEnd && (ev.Detail == DetailFailed || ev.Detail == DetailIOError) {
			failed[ev.SpanID] = struct{}{}
		}
	}
	if len(failed) == 0 {
		return nil
	}
	out := make([]Event, 0, len(failed)*4)
	for i := range events {
		_, own := failed[events[i].SpanID]
		_, child := failed[events[i].ParentID]
		if own || child {
			out = append(out, events[i])
		}
	}
	return out
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}
