package model

import (
	"strings"
	"time"
)

// Column describes one artifact column: its original dataset name, its
// presentation label (split into lines at the line-break marker), its
// semantic role, and whether it is part of the visible set. Hidden
// columns keep their data and labels so they can still be addressed by
// name and revealed later.
type Column struct {
	// Name is the original dataset column name. It never changes, even
	// after relabeling; it is the stable identity of the column.
	Name string `json:"name"`

	// Label holds the presentation label lines. Renderers join them with
	// a format-appropriate line break (<br> in HTML, space in text).
	Label []string `json:"label"`

	// Role is the semantic category assigned at specification compile
	// time. Numeric roles render right-aligned.
	Role Role `json:"role"`

	// Visible reports whether the column belongs to the rendered set.
	Visible bool `json:"visible"`
}

// JoinLabel returns the label lines joined with the given separator.
// A column with no label lines falls back to its original name.
func (c Column) JoinLabel(sep string) string {
	if len(c.Label) == 0 {
		return c.Name
	}
	return strings.Join(c.Label, sep)
}

// Spanner is a label grouping several columns under one header band.
type Spanner struct {
	// Label is the band text shown above the grouped columns.
	Label string `json:"label"`

	// Columns lists the grouped columns by original name, in the
	// dataset's column order.
	Columns []string `json:"columns"`
}

// Source records where the artifact's data came from.
type Source struct {
	// Path is the input file path, when the artifact was built from one.
	Path string `json:"path,omitempty"`

	// Digest is the SHA3-256 hex digest of the raw input bytes, used by
	// the archive to tell data cuts apart.
	Digest string `json:"digest,omitempty"`
}

// Artifact is the formatted table ready for rendering: every cell a
// display string, with header, spanner, and footnote metadata attached.
//
// An Artifact is read-only. It is owned solely by the caller that built
// it; writers only ever read from it, which is what makes concurrent
// rendering of independent reports coordination-free.
type Artifact struct {
	// Title and Subtitle form the table header.
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`

	// Columns holds every dataset column in original order, visible or
	// not. Rows are indexed in the same order.
	Columns []Column `json:"columns"`

	// Rows holds the display strings, full width, in original column
	// order. Renderers project the visible subset.
	Rows [][]string `json:"rows"`

	// Spanners are the header bands, in specification order.
	Spanners []Spanner `json:"spanners,omitempty"`

	// Footnotes are the ordered source notes, date stamps already
	// substituted.
	Footnotes []string `json:"footnotes,omitempty"`

	// BuiltAt is when the pipeline produced this artifact.
	BuiltAt time.Time `json:"built_at"`

	// Source describes the input data, when known.
	Source Source `json:"source"`
}

// Column returns the column with the given original name.
func (a *Artifact) Column(name string) (Column, bool) {
	for _, c := range a.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// columnIndex returns the position of the named column in Columns/Rows.
func (a *Artifact) columnIndex(name string) (int, bool) {
	for i, c := range a.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// VisibleColumns returns the visible columns in render order.
func (a *Artifact) VisibleColumns() []Column {
	cols := make([]Column, 0, len(a.Columns))
	for _, c := range a.Columns {
		if c.Visible {
			cols = append(cols, c)
		}
	}
	return cols
}

// VisibleIndexes returns the Rows indexes of the visible columns in
// render order.
func (a *Artifact) VisibleIndexes() []int {
	idx := make([]int, 0, len(a.Columns))
	for i, c := range a.Columns {
		if c.Visible {
			idx = append(idx, i)
		}
	}
	return idx
}

// Value returns the display string at the given row for the named
// column, hidden or not.
func (a *Artifact) Value(row int, column string) (string, bool) {
	i, ok := a.columnIndex(column)
	if !ok || row < 0 || row >= len(a.Rows) {
		return "", false
	}
	return a.Rows[row][i], true
}

// SpannerOf returns the spanner label covering the named column.
func (a *Artifact) SpannerOf(column string) (string, bool) {
	for _, s := range a.Spanners {
		for _, c := range s.Columns {
			if c == column {
				return s.Label, true
			}
		}
	}
	return "", false
}
