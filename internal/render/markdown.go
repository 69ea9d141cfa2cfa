package render

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/clintab/clintab/internal/model"
)

// MarkdownWriter outputs artifacts in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Built-in table support via TableSet
// 3. GitHub-flavored markdown output
//
// Markdown tables have no spanner row, so spanner labels are folded into
// the column headers as a "Band<br>Label" prefix.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the artifact in Markdown format.
func (w *MarkdownWriter) Write(artifact *model.Artifact) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, artifact)
	w.writeTable(md, artifact)
	w.writeFootnotes(md, artifact)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the italicized subtitle.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, artifact *model.Artifact) {
	md.H1(artifact.Title)
	if artifact.Subtitle != "" {
		md.PlainText("*" + artifact.Subtitle + "*")
	}
	md.PlainText("")
}

// writeTable writes the visible columns and rows as a markdown table.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown, artifact *model.Artifact) {
	visible := artifact.VisibleColumns()
	indexes := artifact.VisibleIndexes()

	header := make([]string, len(visible))
	for i, col := range visible {
		header[i] = w.columnHeader(artifact, col)
	}

	rows := make([][]string, len(artifact.Rows))
	for ri, row := range artifact.Rows {
		cells := make([]string, len(indexes))
		for vi, i := range indexes {
			cells[vi] = row[i]
		}
		rows[ri] = cells
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")
}

// columnHeader builds one header cell: the spanner label (when the
// column sits under one) and the label lines, joined with <br>.
func (w *MarkdownWriter) columnHeader(artifact *model.Artifact, col model.Column) string {
	lines := make([]string, 0, len(col.Label)+1)
	if band, ok := artifact.SpannerOf(col.Name); ok {
		lines = append(lines, band)
	}
	if len(col.Label) > 0 {
		lines = append(lines, col.Label...)
	} else {
		lines = append(lines, col.Name)
	}
	return strings.Join(lines, "<br>")
}

// writeFootnotes writes the source notes after the table.
func (w *MarkdownWriter) writeFootnotes(md *markdown.Markdown, artifact *model.Artifact) {
	if len(artifact.Footnotes) == 0 {
		return
	}

	for _, note := range artifact.Footnotes {
		md.PlainText(note)
	}
	md.PlainText("")
}
