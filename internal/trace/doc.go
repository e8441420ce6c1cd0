// Package trace provides the tracing subsystem of the bril verifier.
//
// Tracing records which snapshots, modules and functions were verified and
// how long each took, so slow or stuck runs can be diagnosed.
//
// # Usage
//
//	bril verify --trace=- --trace-level=detail module.yaml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer, dumped on panic; in ring mode the
//     events of failed snapshots are dumped after verification
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: driver and module boundaries
//   - LevelDetail: per-function events
//   - LevelDebug: everything including per-operation verdicts
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeModule, "verify", parentID)
//	defer span.End("")
package trace
