package format

import "errors"

// Formatter construction and application errors.
//
// Design decision: We use package-level sentinel errors so callers can
// match with errors.Is() while wrapping call sites add the column name
// and row index. All of these are unrecoverable configuration problems;
// nothing retries them.
var (
	// ErrCellType is returned when a numeric formatter receives a text
	// cell. There is no silent coercion: text under a numeric formatter
	// means a mis-tagged or already-formatted column.
	ErrCellType = errors.New("cell is not numeric")

	// ErrInvalidDecimals is returned when a decimal-place count is
	// negative.
	ErrInvalidDecimals = errors.New("decimal places must be non-negative")

	// ErrInvalidDigits is returned when a significant-figure count is
	// not positive.
	ErrInvalidDigits = errors.New("significant figures must be positive")
)
