package driver

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"bril/internal/diag"
	"bril/internal/ir"
	"bril/internal/irfile"
	"bril/internal/trace"
	"bril/internal/verify"
)

// Options configures a multi-snapshot run.
type Options struct {
	Jobs   int // files verified in parallel, 0 = GOMAXPROCS
	Verify verify.Options
	Cache  *Cache // nil disables the on-disk verdict cache
}

// FileResult is the verdict for one snapshot.
type FileResult struct {
	Path    string
	Module  string
	Bag     *diag.Bag
	Funcs   int
	Ops     int
	Dropped int  // diagnostics lost to the bag limit
	Cached  bool // verdict reused without re-verifying
}

// OK reports whether the snapshot produced no errors.
func (r *FileResult) OK() bool {
	return r.Bag == nil || !r.Bag.HasErrors()
}

// VerifyFiles loads and verifies every snapshot, up to Jobs at a time.
// Results are in input order. Unreadable or invalid snapshots become IO
// diagnostics in their own result; the returned error is reserved for
// cancellation.
func VerifyFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "verify-files", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)

	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		span.End("")
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	m := newMemo(len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res, err := verifyFile(gctx, path, opts, m)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End(trace.DetailCancelled)
		return nil, err
	}

	failed := 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
	}
	span.WithExtra("files", strconv.Itoa(len(paths))).
		WithExtra("failed", strconv.Itoa(failed)).
		End("")
	return results, nil
}

// VerifyFile verifies a single snapshot.
func VerifyFile(ctx context.Context, path string, opts Options) (FileResult, error) {
	return verifyFile(ctx, path, opts, nil)
}

func verifyFile(ctx context.Context, path string, opts Options, m *memo) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "file:"+path, trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)

	res := FileResult{
		Path: path,
		Bag:  diag.NewBag(effectiveMax(opts.Verify.MaxDiagnostics)),
	}

	doc, data, err := irfile.ReadFile(path)
	if err != nil {
		reportIO(&diag.BagReporter{Bag: res.Bag}, path, err)
		span.End(trace.DetailIOError)
		return res, nil
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	res.Module = doc.Name

	key := cacheKey(data, opts.Verify)
	if p, ok := m.get(key); ok {
		res.fill(p)
		res.Cached = true
		span.WithExtra("source", "memo").End(verdictOf(&res))
		return res, nil
	}
	if p, ok, err := opts.Cache.Get(key); err != nil {
		trace.Point(tracer, trace.ScopeModule, "cache:get", span.ID(), err.Error())
	} else if ok {
		m.put(key, p)
		res.fill(p)
		res.Cached = true
		span.WithExtra("source", "cache").End(verdictOf(&res))
		return res, nil
	}

	mod, err := doc.Module()
	if err != nil {
		reportIO(&diag.BagReporter{Bag: res.Bag}, path, err)
		span.End(trace.DetailIOError)
		return res, nil
	}

	report, err := verify.VerifyModule(ctx, mod, opts.Verify)
	if err != nil {
		span.End(trace.DetailCancelled)
		return FileResult{}, err
	}

	payload := &CachePayload{
		Funcs:       report.Funcs,
		Ops:         report.Ops,
		Dropped:     report.Dropped,
		Diagnostics: report.Bag.Items(),
	}
	res.fill(payload)
	m.put(key, payload)
	if err := opts.Cache.Put(key, payload); err != nil {
		trace.Point(tracer, trace.ScopeModule, "cache:put", span.ID(), err.Error())
	}

	span.End(verdictOf(&res))
	return res, nil
}

func (r *FileResult) fill(p *CachePayload) {
	r.Funcs, r.Ops, r.Dropped = p.Funcs, p.Ops, p.Dropped
	for _, d := range p.Diagnostics {
		r.Bag.Add(d)
	}
}

// reportIO reports a load failure as IO4002 when the snapshot was read but is
// malformed, IO4001 otherwise.
func reportIO(r diag.Reporter, path string, err error) {
	code := diag.IOSnapshotUnreadable
	if errors.Is(err, irfile.ErrInvalid) {
		code = diag.IOSnapshotInvalid
	}
	diag.ReportError(r, code, ir.Location{File: path}, err.Error()).Emit()
}

func verdictOf(r *FileResult) string {
	if r.OK() {
		return trace.DetailOK
	}
	return trace.DetailFailed
}
