// Package model defines the core data structures used throughout clintab.
//
// This package contains the following main types:
//   - Cell: A single dataset value (number, display text, or missing)
//   - Dataset: An immutable ordered table of named columns
//   - Role: The semantic category of a column (group count, percentage, ...)
//   - Artifact: The formatted table ready for presentation rendering
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (format, spec, pipeline,
// render, archive) need these types, so centralizing them prevents
// import cycles.
//
// Datasets follow a copy-on-write discipline: every transforming method
// returns a new Dataset, which is what lets independent reports build
// concurrently with no coordination. Artifacts are read-only and
// serializable to JSON for report output and archive storage.
package model
