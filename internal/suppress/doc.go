// Package suppress implements bulk suppression of diagnostics across a
// multi-language workspace.
//
// The engine takes raw diagnostic records from a selection source, binds
// them to the current workspace snapshot (materialization), partitions
// them by project language, resolves a per-language fix strategy, and
// applies one aggregated multi-document change per language group. Groups
// are processed strictly sequentially: each group's change replaces the
// workspace's current snapshot, and the next group's diagnostics are
// re-bound against that new snapshot before processing continues.
//
// The model is deliberately partial-success: each language group commits
// atomically on its own, but a declined preview or a cancellation stops
// the remaining groups without rolling back the groups already applied.
// Nothing in this package reports "did nothing" as an error — empty
// selections, unresolvable documents, languages without a strategy, and
// cancellations all degrade to silent no-ops.
package suppress
