// Package render writes table artifacts in presentation formats.
//
// This package contains writers for different output formats:
//   - HTMLWriter: Standalone HTML document with spanner and footnote rows
//   - MarkdownWriter: GitHub-flavored markdown for documentation
//   - TextWriter: Human-readable grid for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//
// Design decision: We separate artifact rendering from the artifact data
// structure (which lives in the model package) so new output formats can
// be added without touching the pipeline. Writers only ever read the
// artifact, which keeps concurrent rendering of independent reports
// coordination-free.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package render
