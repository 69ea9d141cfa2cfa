// Package format provides the cell formatters used by the report pipeline.
//
// A Formatter turns a numeric cell into a display-string cell: fixed
// decimal places, significant figures, whole numbers with optional
// bracket wrapping, or percentages with optional scaling and wrapping.
// Missing cells pass through every formatter unchanged.
//
// Design decision: Formatters fail hard on text input (ErrCellType)
// instead of passing it through. A text cell inside a column routed to a
// numeric formatter means either the column was mis-tagged or the column
// was already formatted once; both are configuration errors worth
// surfacing, and the hard failure is also what makes double-formatting a
// defined error rather than silent corruption.
package format
