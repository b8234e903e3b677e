// Package diag defines the diagnostic model shared by the scanner and the
// suppression engine.
//
// # Data model
//
// Two representations exist on purpose:
//
//   - Record – raw, snapshot-independent finding. It carries the stable
//     identifiers of the owning project and document plus the span, code,
//     severity, and message. Records are what the scanner produces and
//     what gets cached between runs; they stay valid while the workspace
//     evolves because they hold no reference into any snapshot.
//   - Diagnostic – a Record bound to a concrete Document of a concrete
//     Snapshot. Diagnostics are derived freshly for every suppression
//     round and are discarded after use; they must never outlive the
//     snapshot they were bound against.
//
// Severity is a tri-level enum (Info, Warning, Error) and Code is a
// compact numeric identifier with a stable string form ("HS1001") used in
// pragmas and suppression lists.
//
// # Consumers
//
//   - internal/scan: emits Records into a Bag (sorting, dedup, limit).
//   - internal/scancache: serialises Records between runs.
//   - internal/suppress: binds Records to snapshots and computes fixes.
//
// Keep the data model deterministic and side-effect free so Records can be
// safely serialised for caching and testing.
package diag
