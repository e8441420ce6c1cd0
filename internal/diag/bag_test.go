package diag

import (
	"testing"

	"bril/internal/ir"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		added := b.Add(NewError(VerPointeeMismatch, ir.Location{File: "a", Line: uint32(i + 1)}, "m"))
		if want := i < 2; added != want {
			t.Fatalf("Add #%d = %v, want %v", i, added, want)
		}
	}
	if !b.Full() || b.Len() != 2 {
		t.Fatalf("bag should be full with 2 items, got %d", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("HasErrors must be true")
	}
}

func TestNewBagClamps(t *testing.T) {
	if got := NewBag(0).Cap(); got != 1 {
		t.Fatalf("NewBag(0).Cap() = %d", got)
	}
	if got := NewBag(1 << 20).Cap(); got != 65535 {
		t.Fatalf("NewBag(1<<20).Cap() = %d", got)
	}
}

func TestBagMergeRespectsLimit(t *testing.T) {
	a := NewBag(2)
	a.Add(NewError(VerOperandNotPointer, ir.Location{}, "x"))
	other := NewBag(5)
	other.Add(NewError(VerOperandNotPointer, ir.Location{}, "y"))
	other.Add(NewError(VerOperandNotPointer, ir.Location{}, "z"))
	if dropped := a.Merge(other); dropped != 1 {
		t.Fatalf("Merge dropped %d, want 1", dropped)
	}
	if a.Len() != 2 || a.Items()[1].Message != "y" {
		t.Fatalf("unexpected items after merge: %+v", a.Items())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	late := ir.Location{File: "m.yaml", Line: 9, Col: 1}
	early := ir.Location{File: "m.yaml", Line: 2, Col: 5}
	b.Add(NewError(VerPointeeMismatch, late, "late"))
	b.Add(New(SevWarning, VerInfo, early, "warn"))
	b.Add(NewError(VerOperandNotPointer, early, "early"))
	b.Add(NewError(VerOperandNotPointer, early, "early"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("Dedup left %d items, want 3", b.Len())
	}
	b.Sort()
	got := []string{b.Items()[0].Message, b.Items()[1].Message, b.Items()[2].Message}
	want := []string{"early", "warn", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(4)
	rb := ReportError(&BagReporter{Bag: b}, VerPointeeMismatch, ir.Location{File: "f"}, "msg").
		WithOp("bril.load").
		WithNote(ir.Location{}, "note")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", b.Len())
	}
	d := b.Items()[0]
	if d.Text() != "'bril.load' op msg" || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestBagReporterCountsDrops(t *testing.T) {
	r := &BagReporter{Bag: NewBag(1)}
	d := NewError(VerOperandNotPointer, ir.Location{File: "f", Line: 1}, "m").WithOp("bril.store")
	r.Report(d)
	r.Report(d)
	r.Report(d.WithOp("bril.load"))
	if r.Bag.Len() != 1 || r.Dropped != 2 {
		t.Fatalf("len=%d dropped=%d, want 1 and 2", r.Bag.Len(), r.Dropped)
	}

	var orphan BagReporter
	orphan.Report(d)
	if orphan.Dropped != 1 {
		t.Fatalf("reporter without bag must count the drop")
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		VerOperandNotPointer: "VER1001",
		VerPointeeMismatch:   "VER1002",
		IOSnapshotInvalid:    "IO4002",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if got := VerPointeeMismatch.String(); got != "[VER1002]: Type does not match pointee type" {
		t.Errorf("String() = %q", got)
	}
}
