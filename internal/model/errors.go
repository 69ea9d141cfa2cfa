package model

import "errors"

// Dataset construction errors.
//
// Design decision: We use package-level sentinel errors so callers can
// match with errors.Is() while the wrapping call sites add the column
// name or row index. These conditions are all unrecoverable configuration
// or input-shape problems; nothing retries them.
var (
	// ErrNoColumns is returned when a dataset is created without columns.
	ErrNoColumns = errors.New("dataset needs at least one column")

	// ErrEmptyColumnName is returned when a header field is blank.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned when two columns share a name.
	// Every later stage addresses columns by name, so duplicates would
	// make merge and relabel targets ambiguous.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrColumnNotFound is returned when an operation references a
	// column the dataset does not have.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRaggedRow is returned when an appended row's cell count does
	// not match the column count.
	ErrRaggedRow = errors.New("row width does not match column count")

	// ErrEmptyCSV is returned when CSV input has no header record.
	ErrEmptyCSV = errors.New("CSV input is empty")
)
