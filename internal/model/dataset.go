package model

import (
	"fmt"
)

// Dataset is an ordered table of named columns whose rows are analytic
// records (one per demographic category, adverse-event term, and so on).
//
// Datasets are immutable once handed to a pipeline: every transforming
// method returns a fresh Dataset and leaves the receiver untouched, so
// each intermediate pipeline state stays inspectable. Construction
// (New + AppendRow, or ReadCSV) is the only phase that mutates.
//
// Design decision: We keep a plain row-major [][]Cell rather than a
// columnar store because the pipeline's unit of work is per-cell string
// replacement over small summary tables, and copy-on-write snapshots of
// whole rows are cheap at that scale.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty Dataset with the given ordered column names.
// Duplicate or absent column names are configuration errors.
func New(columns ...string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	idx := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("column %q: %w", name, ErrDuplicateColumn)
		}
		idx[name] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{
		columns: cols,
		index:   idx,
		rows:    make([][]Cell, 0),
	}, nil
}

// AppendRow adds a row of cells in column order. The cell count must
// match the column count exactly.
func (d *Dataset) AppendRow(cells ...Cell) error {
	if len(cells) != len(d.columns) {
		return fmt.Errorf("row %d has %d cells, want %d: %w",
			len(d.rows), len(cells), len(d.columns), ErrRaggedRow)
	}
	row := make([]Cell, len(cells))
	copy(row, cells)
	d.rows = append(d.rows, row)
	return nil
}

// Columns returns the ordered column names. The returned slice is a copy.
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return len(d.rows) }

// HasColumn reports whether a column with the given name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	return i, nil
}

// Cell returns the cell at the given row in the named column.
func (d *Dataset) Cell(row int, column string) (Cell, error) {
	i, err := d.ColumnIndex(column)
	if err != nil {
		return Cell{}, err
	}
	if row < 0 || row >= len(d.rows) {
		return Cell{}, fmt.Errorf("row %d out of range (have %d rows)", row, len(d.rows))
	}
	return d.rows[row][i], nil
}

// Column returns a copy of the named column's cells in row order.
func (d *Dataset) Column(name string) ([]Cell, error) {
	i, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, len(d.rows))
	for r, row := range d.rows {
		cells[r] = row[i]
	}
	return cells, nil
}

// MapColumn applies fn to every cell of the named column and returns a
// new Dataset with the results. The receiver is not modified.
func (d *Dataset) MapColumn(name string, fn func(row int, c Cell) (Cell, error)) (*Dataset, error) {
	i, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	next := d.clone()
	for r := range next.rows {
		out, err := fn(r, next.rows[r][i])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, r, err)
		}
		next.rows[r][i] = out
	}
	return next, nil
}

// ZipColumns combines two columns cell by cell: fn receives the primary
// and secondary cells of each row, and its result replaces the primary
// cell. The secondary column keeps its data. A new Dataset is returned.
func (d *Dataset) ZipColumns(primary, secondary string, fn func(row int, p, s Cell) (Cell, error)) (*Dataset, error) {
	pi, err := d.ColumnIndex(primary)
	if err != nil {
		return nil, err
	}
	si, err := d.ColumnIndex(secondary)
	if err != nil {
		return nil, err
	}
	next := d.clone()
	for r := range next.rows {
		out, err := fn(r, next.rows[r][pi], next.rows[r][si])
		if err != nil {
			return nil, fmt.Errorf("columns %q+%q row %d: %w", primary, secondary, r, err)
		}
		next.rows[r][pi] = out
	}
	return next, nil
}

// MapCells applies fn to every cell of the table and returns a new
// Dataset with the results.
func (d *Dataset) MapCells(fn func(column string, row int, c Cell) (Cell, error)) (*Dataset, error) {
	next := d.clone()
	for r := range next.rows {
		for i, name := range next.columns {
			out, err := fn(name, r, next.rows[r][i])
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, r, err)
			}
			next.rows[r][i] = out
		}
	}
	return next, nil
}

// clone produces a deep copy sharing nothing mutable with the receiver.
func (d *Dataset) clone() *Dataset {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	idx := make(map[string]int, len(d.index))
	for k, v := range d.index {
		idx[k] = v
	}
	rows := make([][]Cell, len(d.rows))
	for r, row := range d.rows {
		rows[r] = make([]Cell, len(row))
		copy(rows[r], row)
	}
	return &Dataset{columns: cols, index: idx, rows: rows}
}
