// Package pipeline implements the report builder: a fixed forward
// sequence of stages that transforms an immutable dataset plus a
// compiled report specification into a read-only table artifact.
//
// The stages run in a fixed order: cell formatting, column merging,
// missing-value substitution, column hiding, header attachment,
// relabeling, spanner grouping, and footnote attachment. Each stage is
// pure with respect to its inputs; there is no branching, no retry, and
// no partial artifact on failure.
//
// Design decision: We keep the stage abstraction even though the order
// never varies because:
// 1. It provides consistent error wrapping and logging per stage
// 2. It supports cancellation via context between stages
// 3. It keeps each transformation small and testable in isolation
//
// The package also provides a BatchRenderer for rendering many
// independent reports concurrently with errgroup. Datasets and
// artifacts are immutable and exclusively owned per invocation, so
// batch jobs need no coordination beyond the concurrency limit.
package pipeline
