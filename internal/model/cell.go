package model

import (
	"math"
	"strconv"
	"strings"
)

// CellKind identifies the payload carried by a Cell.
//
// Design decision: We use iota-based constants rather than an interface
// hierarchy because cells are tiny values copied by the million during
// pipeline stages. A flat struct with a kind tag keeps them allocation-free
// and comparable.
type CellKind int

const (
	// KindMissing marks an absent value. CSV ingestion produces it for
	// empty fields and the conventional markers "NA" and "NaN".
	KindMissing CellKind = iota

	// KindNumber marks a raw numeric value that no formatter has touched.
	KindNumber

	// KindText marks a display string: either ingested text (row labels,
	// category names) or the output of a formatter.
	KindText
)

// String returns a human-readable representation of the cell kind.
func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single dataset value: a number, a display string, or missing.
// Cells are immutable values; transforming a cell means constructing a
// new one. Formatters always produce KindText cells, which is what keeps
// an already-formatted column distinguishable from raw numeric data.
type Cell struct {
	kind CellKind
	num  float64
	text string
}

// Number creates a numeric cell. NaN collapses to Missing because NaN is
// the dataframe convention for absent numeric values and must behave like
// one in every later stage.
func Number(v float64) Cell {
	if math.IsNaN(v) {
		return Missing()
	}
	return Cell{kind: KindNumber, num: v}
}

// Text creates a display-string cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Missing creates an absent-value cell.
func Missing() Cell {
	return Cell{kind: KindMissing}
}

// Kind returns the cell's kind tag.
func (c Cell) Kind() CellKind { return c.kind }

// IsMissing reports whether the cell carries no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Number returns the numeric payload and whether the cell is numeric.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// Text returns the string payload and whether the cell is text.
func (c Cell) Text() (string, bool) {
	return c.text, c.kind == KindText
}

// Display renders the cell as a final display string. Missing cells
// render as the given substitution text; numeric cells that no formatter
// claimed render in Go's shortest exact notation, so raw values pass
// through without invented rounding.
func (c Cell) Display(missingText string) string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	default:
		return missingText
	}
}

// ParseCell maps a raw CSV field to a Cell. Empty fields and the markers
// "NA" and "NaN" (any case) become Missing; fields that parse as floats
// become Number; everything else becomes Text. Surrounding whitespace is
// not significant for the missing/number decision but is preserved in
// text payloads.
func ParseCell(field string) Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return Missing()
	}
	switch strings.ToLower(trimmed) {
	case "na", "nan":
		return Missing()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(v)
	}
	return Text(field)
}
