package spec

import "errors"

// Specification construction and compilation errors.
//
// Design decision: We use package-level sentinel errors so callers can
// match with errors.Is() while the wrapping call sites name the rule,
// selector, or column involved. Every one of these is a fatal
// configuration error: compilation aborts on the first and no partial
// plan is returned.
var (
	// ErrNoTitle is returned when a specification is built without a
	// title. Every summary table carries a header.
	ErrNoTitle = errors.New("specification needs a title")

	// ErrEmptySelector is returned when a rule or hide entry carries a
	// selector that names no columns, prefix, or suffix.
	ErrEmptySelector = errors.New("selector is empty")

	// ErrSelectorNoMatch is returned when a selector matches zero
	// columns of the dataset it is compiled against. A rule that finds
	// nothing to format is a broken specification, not a no-op.
	ErrSelectorNoMatch = errors.New("selector matches no columns")

	// ErrDuplicateRule is returned when two rules claim the same column.
	// Pattern order is significant and fixed at specification time, so
	// overlapping patterns resolve to the earlier rule; two rules that
	// name the same column explicitly are reported instead.
	ErrDuplicateRule = errors.New("column claimed by more than one rule")

	// ErrUnknownColumn is returned when a merge pair, label, spanner, or
	// explicit selector references a column the dataset does not have.
	ErrUnknownColumn = errors.New("specification references unknown column")

	// ErrSpecNotFound is returned when the specification file does not
	// exist.
	ErrSpecNotFound = errors.New("specification file not found")
)
