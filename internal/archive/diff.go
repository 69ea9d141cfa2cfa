package archive

import (
	"context"
	"fmt"

	"github.com/clintab/clintab/internal/model"
)

// CellDiff records one display value that changed between two renders.
type CellDiff struct {
	// Row is the zero-based row index in the after artifact.
	Row int

	// Column is the dataset column name.
	Column string

	// Before and After are the display strings in the older and newer
	// render. An added cell has an empty Before; a removed cell has an
	// empty After.
	Before string
	After  string
}

// Diff summarizes the differences between two archived renders of one
// report.
type Diff struct {
	// Report is the report name.
	Report string

	// BeforeID and AfterID are the archive IDs of the compared renders.
	BeforeID int64
	AfterID  int64

	// Cells lists every changed display value in shared columns, in
	// row-major order.
	Cells []CellDiff

	// AddedColumns and RemovedColumns name columns present in only one
	// of the two renders.
	AddedColumns   []string
	RemovedColumns []string

	// RowDelta is the row-count change: after minus before.
	RowDelta int

	// SourceChanged reports whether the two renders were built from
	// different data cuts (different source digests).
	SourceChanged bool
}

// Changed reports whether the diff found any difference at all.
func (d *Diff) Changed() bool {
	return len(d.Cells) > 0 || len(d.AddedColumns) > 0 || len(d.RemovedColumns) > 0 || d.RowDelta != 0
}

// DiffRenders compares the two most recent archived renders of a report
// cell by cell. It is how value changes between data cuts get
// quality-checked before a delivery goes out.
func (a *Archive) DiffRenders(ctx context.Context, report string) (*Diff, error) {
	history, err := a.RenderHistory(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(history) < 2 {
		return nil, fmt.Errorf("report %q: %w", report, ErrNotEnoughRenders)
	}

	// History is newest first.
	after, before := history[0], history[1]
	return a.DiffByID(ctx, report, before.ID, after.ID)
}

// DiffByID compares two archived renders of a report by archive ID.
func (a *Archive) DiffByID(ctx context.Context, report string, beforeID, afterID int64) (*Diff, error) {
	beforeArt, err := a.RenderByID(ctx, beforeID)
	if err != nil {
		return nil, err
	}
	afterArt, err := a.RenderByID(ctx, afterID)
	if err != nil {
		return nil, err
	}

	d := DiffArtifacts(beforeArt, afterArt)
	d.Report = report
	d.BeforeID = beforeID
	d.AfterID = afterID
	return d, nil
}

// DiffArtifacts compares two artifacts cell by cell over their shared
// columns. Rows are matched by index; a table whose row population
// changed shows up as RowDelta plus added or removed cell diffs at the
// tail.
func DiffArtifacts(before, after *model.Artifact) *Diff {
	d := &Diff{
		RowDelta:      len(after.Rows) - len(before.Rows),
		SourceChanged: before.Source.Digest != after.Source.Digest,
	}

	beforeCols := make(map[string]bool, len(before.Columns))
	for _, c := range before.Columns {
		beforeCols[c.Name] = true
	}
	afterCols := make(map[string]bool, len(after.Columns))
	for _, c := range after.Columns {
		afterCols[c.Name] = true
	}

	shared := make([]string, 0, len(after.Columns))
	for _, c := range after.Columns {
		if beforeCols[c.Name] {
			shared = append(shared, c.Name)
		} else {
			d.AddedColumns = append(d.AddedColumns, c.Name)
		}
	}
	for _, c := range before.Columns {
		if !afterCols[c.Name] {
			d.RemovedColumns = append(d.RemovedColumns, c.Name)
		}
	}

	rows := len(before.Rows)
	if len(after.Rows) > rows {
		rows = len(after.Rows)
	}

	for row := 0; row < rows; row++ {
		for _, column := range shared {
			b, bok := cellAt(before, row, column)
			x, xok := cellAt(after, row, column)
			if !bok && !xok {
				continue
			}
			if b != x {
				d.Cells = append(d.Cells, CellDiff{Row: row, Column: column, Before: b, After: x})
			}
		}
	}

	return d
}

// cellAt returns the display value at the given position, empty when
// the row is out of range.
func cellAt(a *model.Artifact, row int, column string) (string, bool) {
	if row >= len(a.Rows) {
		return "", false
	}
	return a.Value(row, column)
}
