package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/clintab/clintab/internal/model"
)

// Formatter converts a numeric cell into a display-string cell.
// Implementations never modify their input; they return a new cell.
//
// Design decision: We use an interface rather than function types
// because formatters carry configuration state (decimal counts, wrap
// strings) and a Name() method keeps stage logs and error messages
// readable.
type Formatter interface {
	// Format returns the display cell for the given cell. Missing cells
	// pass through unchanged; text cells are ErrCellType.
	Format(c model.Cell) (model.Cell, error)

	// Name returns the formatter's name for logging and error messages.
	Name() string
}

// number extracts the numeric payload shared by every formatter:
// missing passes through, text fails hard.
func number(c model.Cell) (float64, bool, error) {
	if c.IsMissing() {
		return 0, false, nil
	}
	v, ok := c.Number()
	if !ok {
		return 0, false, ErrCellType
	}
	return v, true, nil
}

// Fixed renders numbers with a fixed count of decimal places.
// It is the conventional formatter for p-values and summary statistics
// reported to a fixed precision (e.g. 0.0001234 at 4 decimals -> "0.0001").
type Fixed struct {
	decimals int
}

// NewFixed creates a fixed-decimal formatter.
func NewFixed(decimals int) (*Fixed, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("fixed formatter: %w", ErrInvalidDecimals)
	}
	return &Fixed{decimals: decimals}, nil
}

// Name returns the formatter name.
func (f *Fixed) Name() string { return "fixed" }

// Format renders the cell with the configured decimal places.
func (f *Fixed) Format(c model.Cell) (model.Cell, error) {
	v, ok, err := number(c)
	if err != nil {
		return model.Cell{}, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if !ok {
		return c, nil
	}
	return model.Text(strconv.FormatFloat(v, 'f', f.decimals, 64)), nil
}

// Signif renders numbers rounded to a count of significant figures,
// always in fixed-point notation (never exponent form), matching how
// summary statistics are reported in clinical tables.
type Signif struct {
	digits int
}

// NewSignif creates a significant-figures formatter.
func NewSignif(digits int) (*Signif, error) {
	if digits <= 0 {
		return nil, fmt.Errorf("signif formatter: %w", ErrInvalidDigits)
	}
	return &Signif{digits: digits}, nil
}

// Name returns the formatter name.
func (f *Signif) Name() string { return "signif" }

// Format renders the cell rounded to the configured significant figures.
func (f *Signif) Format(c model.Cell) (model.Cell, error) {
	v, ok, err := number(c)
	if err != nil {
		return model.Cell{}, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if !ok {
		return c, nil
	}
	return model.Text(formatSignif(v, f.digits)), nil
}

// formatSignif rounds v to the given significant figures and renders it
// in fixed-point notation.
func formatSignif(v float64, digits int) string {
	if v == 0 {
		return strconv.FormatFloat(0, 'f', digits-1, 64)
	}

	// Position of the leading digit relative to the decimal point.
	exponent := int(math.Floor(math.Log10(math.Abs(v))))
	decimals := digits - 1 - exponent

	if decimals >= 0 {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}

	// The rounding unit is a power of ten above 1, so round to that
	// unit and render with no decimal places.
	unit := math.Pow(10, float64(-decimals))
	rounded := math.Round(v/unit) * unit
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}

// Integer renders numbers as whole-number strings, optionally wrapped
// in a fixed pattern such as brackets for adverse-event totals
// (86 -> "[86]").
type Integer struct {
	prefix string
	suffix string
}

// NewInteger creates a whole-number formatter. Prefix and suffix wrap
// the rendered number; empty strings leave it bare.
func NewInteger(prefix, suffix string) *Integer {
	return &Integer{prefix: prefix, suffix: suffix}
}

// Name returns the formatter name.
func (f *Integer) Name() string { return "integer" }

// Format renders the cell as a wrapped whole number.
func (f *Integer) Format(c model.Cell) (model.Cell, error) {
	v, ok, err := number(c)
	if err != nil {
		return model.Cell{}, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if !ok {
		return c, nil
	}
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	return model.Text(f.prefix + s + f.suffix), nil
}

// Percent renders numbers as percentages: optionally multiplied by 100,
// rounded to a decimal count, suffixed with "%", and wrapped in a fixed
// pattern. The conventional clinical display uses prefix " (" and
// suffix ")" so the value sits next to its paired count
// (0.523 -> " (52%)").
type Percent struct {
	scale    bool
	decimals int
	prefix   string
	suffix   string
}

// NewPercent creates a percentage formatter. When scale is true the
// value is multiplied by 100 first; when false the data is assumed to
// already be in percent units.
func NewPercent(scale bool, decimals int, prefix, suffix string) (*Percent, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("percent formatter: %w", ErrInvalidDecimals)
	}
	return &Percent{scale: scale, decimals: decimals, prefix: prefix, suffix: suffix}, nil
}

// Name returns the formatter name.
func (f *Percent) Name() string { return "percent" }

// Format renders the cell as a wrapped percentage.
func (f *Percent) Format(c model.Cell) (model.Cell, error) {
	v, ok, err := number(c)
	if err != nil {
		return model.Cell{}, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if !ok {
		return c, nil
	}
	if f.scale {
		v *= 100
	}
	s := strconv.FormatFloat(v, 'f', f.decimals, 64)
	return model.Text(f.prefix + s + "%" + f.suffix), nil
}
