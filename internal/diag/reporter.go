package diag

import "bril/internal/ir"

// Reporter: минимальный контракт получения диагностик.
// Реализация по умолчанию: BagReporter (кладёт в Bag).
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary ir.Location, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary ir.Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// WithOp records the operation the diagnostic is attached to.
func (b *ReportBuilder) WithOp(op string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Op = op
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(loc ir.Location, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(loc, msg)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag и считает то, что не влезло.
type BagReporter struct {
	Bag     *Bag
	Dropped int
}

func (r *BagReporter) Report(d Diagnostic) {
	if r.Bag == nil || !r.Bag.Add(d) {
		r.Dropped++
	}
}
