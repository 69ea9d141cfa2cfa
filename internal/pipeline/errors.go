package pipeline

import "errors"

// Pipeline execution errors.
var (
	// ErrUnformattedMerge is returned when a merge pair encounters a
	// cell that is still numeric. Merging concatenates formatted
	// display strings, never raw values; a numeric cell at merge time
	// means the column was never routed through a formatter.
	ErrUnformattedMerge = errors.New("merge requires formatted display strings")

	// ErrColumnMismatch is returned when the dataset handed to Build
	// does not carry the columns the specification was compiled
	// against.
	ErrColumnMismatch = errors.New("dataset columns do not match compiled specification")
)
