package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bril/internal/diag"
	"bril/internal/ir"
	"bril/internal/trace"
	"bril/internal/types"
)

// buildModule creates funcs functions; those listed in bad contain one
// mismatching load, every function contains a valid store.
func buildModule(funcs int, bad ...int) *ir.Module {
	m := ir.NewModule("test")
	i32 := m.Types.Int(types.Width32)
	f64 := m.Types.Float(types.Width64)
	isBad := make(map[int]bool, len(bad))
	for _, b := range bad {
		isBad[b] = true
	}
	for i := range funcs {
		file := fmt.Sprintf("f%02d.bril", i)
		fb := m.AddFunc(fmt.Sprintf("f%d", i), ir.Location{File: file, Line: 1, Col: 1})
		size := ir.Value{Name: "n", Type: m.Types.Int(types.Width64)}
		ptr := fb.Alloc(size, "p", i32, ir.Location{File: file, Line: 2, Col: 3})
		fb.Store(ptr, ir.Value{Name: "v", Type: i32}, ir.Location{File: file, Line: 3, Col: 3})
		if isBad[i] {
			fb.Load(ptr, ir.Value{Name: "x", Type: f64}, ir.Location{File: file, Line: 4, Col: 3})
		}
	}
	return m
}

func TestVerifyModuleClean(t *testing.T) {
	m := buildModule(8)
	report, err := VerifyModule(context.Background(), m, Options{Jobs: 4})
	if err != nil {
		t.Fatalf("VerifyModule: %v", err)
	}
	if !report.OK() || report.Bag.Len() != 0 {
		t.Fatalf("expected clean report, got %d diagnostics", report.Bag.Len())
	}
	if report.Funcs != 8 || report.Ops != 16 {
		t.Fatalf("funcs=%d ops=%d, want 8 and 16", report.Funcs, report.Ops)
	}
}

func TestVerifyModuleOrderIsStable(t *testing.T) {
	m := buildModule(16, 1, 5, 9, 14)
	var want string
	for _, jobs := range []int{1, 2, 8, 16} {
		report, err := VerifyModule(context.Background(), m, Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if report.OK() {
			t.Fatalf("jobs=%d: expected failures", jobs)
		}
		got := diag.FormatShortDiagnostics(report.Bag.Items(), false)
		if want == "" {
			want = got
			continue
		}
		if got != want {
			t.Fatalf("jobs=%d changed output:\n%s\nvs\n%s", jobs, got, want)
		}
	}
	lines := strings.Split(want, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 diagnostics, got:\n%s", want)
	}
	if !strings.HasPrefix(lines[0], "error VER1002 f01.bril:4:3 'bril.load' op result type must match") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestVerifyModuleFailFast(t *testing.T) {
	m := buildModule(32, 3, 7, 20)
	for _, jobs := range []int{1, 4, 32} {
		report, err := VerifyModule(context.Background(), m, Options{Jobs: jobs, FailFast: true})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if report.Bag.Len() != 1 {
			t.Fatalf("jobs=%d: expected only the first failure, got %d", jobs, report.Bag.Len())
		}
		if got := report.Bag.Items()[0].Primary.File; got != "f03.bril" {
			t.Fatalf("jobs=%d: first failure in %s, want f03.bril", jobs, got)
		}
		if report.Funcs != 4 {
			t.Fatalf("jobs=%d: funcs=%d, want 4", jobs, report.Funcs)
		}
	}
}

func TestVerifyModuleMaxDiagnostics(t *testing.T) {
	m := buildModule(10, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	report, err := VerifyModule(context.Background(), m, Options{Jobs: 3, MaxDiagnostics: 4})
	if err != nil {
		t.Fatalf("VerifyModule: %v", err)
	}
	if report.Bag.Len() != 4 || report.Dropped != 6 {
		t.Fatalf("len=%d dropped=%d, want 4 and 6", report.Bag.Len(), report.Dropped)
	}
	// declaration order wins over scheduling
	if got := report.Bag.Items()[0].Primary.File; got != "f00.bril" {
		t.Fatalf("first kept diagnostic from %s", got)
	}
}

func TestVerifyModuleMaxDiagnosticsWithinFunc(t *testing.T) {
	m := ir.NewModule("many")
	i32 := m.Types.Int(types.Width32)
	fb := m.AddFunc("main", ir.Location{})
	for i := range 5 {
		fb.Load(ir.Value{Name: "p", Type: i32}, ir.Value{Name: "x", Type: i32}, ir.Location{File: "m.bril", Line: uint32(i + 1)})
	}
	report, err := VerifyModule(context.Background(), m, Options{MaxDiagnostics: 2})
	if err != nil {
		t.Fatalf("VerifyModule: %v", err)
	}
	if report.Bag.Len() != 2 || report.Dropped != 3 {
		t.Fatalf("len=%d dropped=%d, want 2 and 3", report.Bag.Len(), report.Dropped)
	}
}

func TestVerifyModuleEdgeCases(t *testing.T) {
	report, err := VerifyModule(context.Background(), nil, Options{})
	if err != nil || !report.OK() {
		t.Fatalf("nil module: %v %v", report, err)
	}

	m := buildModule(1)
	m.Types = nil
	if _, err := VerifyModule(context.Background(), m, Options{}); err == nil {
		t.Fatalf("expected error for a module without interner")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := VerifyModule(ctx, buildModule(4), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestVerifyModuleTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	if _, err := VerifyModule(ctx, buildModule(2, 1), Options{Jobs: 1}); err != nil {
		t.Fatalf("VerifyModule: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"verify:test", "func:f0", "func:f1", "op:bril.load", "(failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q:\n%s", want, out)
		}
	}
}
