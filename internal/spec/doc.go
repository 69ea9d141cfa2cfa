// Package spec defines the report specification: the declarative bundle
// of formatting, merging, labeling, grouping, and footnote rules that
// drives one report.
//
// A Specification is built once, either through the fluent Builder or by
// loading a YAML file, and is immutable afterwards. Before any cell is
// touched it must be compiled against a concrete dataset header with
// Compile, which resolves every column selector exactly once into
// per-column role and formatter assignments. All configuration errors
// (selectors matching nothing, references to absent columns, two rules
// naming the same column) surface at compile time, so the pipeline never
// discovers a broken specification halfway through a table.
//
// Design decision: Selector resolution happens only at compile time.
// After Compile, every column carries an explicit role tag and formatter;
// no stage ever pattern-matches a column name again.
package spec
