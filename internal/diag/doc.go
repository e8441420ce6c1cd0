// Package diag defines the diagnostic model shared by the verifier, the
// snapshot loader and the CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings about
//     individual operations.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does not format for terminals or do IO. Rendering lives in
// internal/diagfmt; orchestration across files lives in internal/driver.
//
// # Data model
//
//   - Severity: Info, Warning, Error.
//   - Code: numeric identifier with a stable string form (VER1001).
//   - Message: the verifier's text, without the operation prefix.
//   - Op: qualified name of the offending operation; Text() adds the
//     'bril.load' op prefix.
//   - Primary: location of the operation.
//   - Notes: secondary context, e.g. the types that were compared.
//
// Keep the model free of side effects so diagnostics can be cached on disk
// and compared in golden tests.
package diag
