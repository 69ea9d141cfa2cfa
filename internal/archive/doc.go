// Package archive provides SQLite-based storage for rendered artifacts.
//
// The archive is strictly opt-in: the default rendering path is
// stateless and never touches it. When enabled it catalogs every
// render of a report so data cuts can be compared cell by cell, which
// is how value changes between deliveries get quality-checked.
//
// Design decision: We store the full artifact as JSON next to a few
// indexed metadata columns rather than normalizing rows and cells into
// tables. History and diff queries always want the whole artifact, and
// the metadata columns cover every listing query without touching the
// JSON.
package archive
