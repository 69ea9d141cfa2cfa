package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/clintab/clintab/internal/model"
)

// TextWriter outputs human-readable text tables.
// This format is designed for terminal display: a ruled header, a
// width-aligned grid, and footnotes under the rule.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showHidden includes hidden columns in the grid, which is useful
	// when checking what a merge or hide selector actually did.
	showHidden bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowHidden includes hidden columns in the output.
func WithShowHidden(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showHidden = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the artifact as a text table.
func (w *TextWriter) Write(artifact *model.Artifact) (int, error) {
	columns, indexes := w.selectColumns(artifact)
	widths := w.columnWidths(artifact, columns, indexes)

	total := 0
	for _, wd := range widths {
		total += wd + 2
	}
	rule := strings.Repeat("=", total)

	var sb strings.Builder

	sb.WriteString(artifact.Title)
	sb.WriteString("\n")
	if artifact.Subtitle != "" {
		sb.WriteString(artifact.Subtitle)
		sb.WriteString("\n")
	}
	sb.WriteString(rule)
	sb.WriteString("\n")

	w.writeHeaderRows(&sb, artifact, columns, widths)
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteString("\n")

	for _, row := range artifact.Rows {
		for vi, i := range indexes {
			w.writeCell(&sb, row[i], widths[vi], columns[vi].Role.Numeric())
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule)
	sb.WriteString("\n")
	for _, note := range artifact.Footnotes {
		sb.WriteString(note)
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// selectColumns returns the rendered columns and their Rows indexes.
func (w *TextWriter) selectColumns(artifact *model.Artifact) ([]model.Column, []int) {
	if !w.showHidden {
		return artifact.VisibleColumns(), artifact.VisibleIndexes()
	}

	indexes := make([]int, len(artifact.Columns))
	for i := range artifact.Columns {
		indexes[i] = i
	}
	return artifact.Columns, indexes
}

// headerLines returns the label lines for one column, falling back to
// the column name, with the spanner label on top when present.
func (w *TextWriter) headerLines(artifact *model.Artifact, col model.Column) []string {
	lines := make([]string, 0, len(col.Label)+1)
	if band, ok := artifact.SpannerOf(col.Name); ok {
		lines = append(lines, band)
	}
	if len(col.Label) > 0 {
		lines = append(lines, col.Label...)
	} else {
		lines = append(lines, col.Name)
	}
	return lines
}

// columnWidths computes the display width of each rendered column from
// its header lines and every cell beneath it.
func (w *TextWriter) columnWidths(artifact *model.Artifact, columns []model.Column, indexes []int) []int {
	widths := make([]int, len(columns))
	for vi, col := range columns {
		for _, line := range w.headerLines(artifact, col) {
			if len(line) > widths[vi] {
				widths[vi] = len(line)
			}
		}
		for _, row := range artifact.Rows {
			if len(row[indexes[vi]]) > widths[vi] {
				widths[vi] = len(row[indexes[vi]])
			}
		}
	}
	return widths
}

// writeHeaderRows writes the stacked header lines: columns with fewer
// label lines than the tallest header are padded with blanks on top.
func (w *TextWriter) writeHeaderRows(sb *strings.Builder, artifact *model.Artifact, columns []model.Column, widths []int) {
	lines := make([][]string, len(columns))
	tallest := 0
	for vi, col := range columns {
		lines[vi] = w.headerLines(artifact, col)
		if len(lines[vi]) > tallest {
			tallest = len(lines[vi])
		}
	}

	for row := 0; row < tallest; row++ {
		for vi := range columns {
			pad := tallest - len(lines[vi])
			text := ""
			if row >= pad {
				text = lines[vi][row-pad]
			}
			w.writeCell(sb, text, widths[vi], columns[vi].Role.Numeric())
		}
		sb.WriteString("\n")
	}
}

// writeCell writes one padded cell. Numeric-role cells right-align.
func (w *TextWriter) writeCell(sb *strings.Builder, text string, width int, numeric bool) {
	if numeric {
		fmt.Fprintf(sb, "%*s  ", width, text)
	} else {
		fmt.Fprintf(sb, "%-*s  ", width, text)
	}
}
