package verify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"bril/internal/diag"
	"bril/internal/ir"
	"bril/internal/trace"
)

// DefaultMaxDiagnostics caps a module's bag when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// Options tunes a module walk.
type Options struct {
	Jobs           int  // parallel functions, 0 = GOMAXPROCS
	MaxDiagnostics int  // 0 = DefaultMaxDiagnostics
	FailFast       bool // stop after the first function with errors
}

// Report is the outcome of verifying one module.
type Report struct {
	Bag     *diag.Bag
	Funcs   int // functions verified
	Ops     int // operations verified
	Dropped int // diagnostics lost to the bag limit
}

// OK reports whether no error diagnostics were produced.
func (r *Report) OK() bool {
	return r != nil && !r.Bag.HasErrors()
}

type funcResult struct {
	bag     *diag.Bag
	ops     int
	dropped int
	done    bool
}

// VerifyModule verifies every operation of m.
//
// Functions are verified concurrently and merged in declaration order, so the
// report does not depend on scheduling. The only error returned is a context
// error when ctx is cancelled before the walk completes.
func VerifyModule(ctx context.Context, m *ir.Module, opts Options) (*Report, error) {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	report := &Report{Bag: diag.NewBag(maxDiag)}
	if m == nil || len(m.Funcs) == 0 {
		return report, nil
	}
	if m.Types == nil {
		return nil, fmt.Errorf("module %q: no type interner", m.Name)
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "verify:"+m.Name, trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]funcResult, len(m.Funcs))

	// firstFail is the lowest index of a function with errors. Functions past
	// it are skipped under FailFast; functions before it always run, which
	// keeps the fail-fast report deterministic.
	var firstFail atomic.Int64
	firstFail.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(m.Funcs)))

	for i, f := range m.Funcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if opts.FailFast && int64(i) > firstFail.Load() {
				return nil
			}
			res := verifyFunc(gctx, m, f, maxDiag)
			results[i] = res
			bag := res.bag
			if opts.FailFast && bag.HasErrors() {
				lowerTo(&firstFail, int64(i))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End(trace.DetailCancelled)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		span.End(trace.DetailCancelled)
		return nil, err
	}

	limit := len(results) - 1
	if opts.FailFast && firstFail.Load() != math.MaxInt64 {
		limit = int(firstFail.Load())
	}
	for i := 0; i <= limit; i++ {
		r := results[i]
		if !r.done {
			continue
		}
		report.Funcs++
		report.Ops += r.ops
		report.Dropped += r.dropped + report.Bag.Merge(r.bag)
	}
	report.Bag.Sort()

	span.WithExtra("funcs", strconv.Itoa(report.Funcs)).
		WithExtra("ops", strconv.Itoa(report.Ops)).
		WithExtra("diagnostics", strconv.Itoa(report.Bag.Len())).
		End(verdict(report))
	return report, nil
}

func verifyFunc(ctx context.Context, m *ir.Module, f *ir.Func, maxDiag int) funcResult {
	res := funcResult{bag: diag.NewBag(maxDiag), done: true}
	if f == nil {
		return res
	}
	rep := &diag.BagReporter{Bag: res.bag}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFunc, "func:"+f.Name, trace.ParentFromContext(ctx))
	if f.Loc.Known() {
		span.At(f.Loc.String())
	}

	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for oi := range bb.Ops {
			op := &bb.Ops[oi]
			res.ops++
			err := VerifyOp(m.Types, op)
			if err == nil {
				continue
			}
			var verr *Error
			if !errors.As(err, &verr) {
				// verifiers only return *Error; anything else is a bug
				panic(fmt.Sprintf("verify: %s returned %T", op.Kind, err))
			}
			rep.Report(verr.Diagnostic())
			trace.PointAt(tracer, trace.ScopeOp, "op:"+op.Kind.String(), span.ID(), op.Loc.String(), verr.Error())
		}
	}

	res.dropped = rep.Dropped
	detail := trace.DetailOK
	if res.bag.HasErrors() {
		detail = trace.DetailFailed
	}
	span.WithExtra("ops", strconv.Itoa(res.ops)).
		WithExtra("diagnostics", strconv.Itoa(res.bag.Len())).
		End(detail)
	return res
}

func lowerTo(v *atomic.Int64, x int64) {
	for {
		cur := v.Load()
		if x >= cur || v.CompareAndSwap(cur, x) {
			return
		}
	}
}

func verdict(r *Report) string {
	if r.OK() {
		return trace.DetailOK
	}
	return trace.DetailFailed
}
