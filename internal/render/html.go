package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/clintab/clintab/internal/model"
)

// htmlStyle is the embedded stylesheet for standalone documents. It is
// intentionally minimal: clinical tables are judged by their content,
// and reviewers paste them into systems with their own styling.
const htmlStyle = `table { border-collapse: collapse; font-family: sans-serif; }
caption { font-weight: bold; padding: 0.5em; caption-side: top; }
caption .subtitle { font-weight: normal; font-style: italic; display: block; }
th, td { padding: 0.25em 0.75em; }
thead th { border-bottom: 1px solid #333; }
thead tr.spanner th { border-bottom: none; }
thead tr.spanner th.band { border-bottom: 1px solid #333; }
td.num { text-align: right; }
tfoot td { border-top: 1px solid #333; font-size: smaller; text-align: left; }`

// HTMLWriter outputs artifacts as standalone HTML documents.
// This format is the primary delivery target: a file a reviewer can
// open in any browser with no toolchain.
//
// Design decision: We build the document with strings.Builder and
// html.EscapeString rather than html/template because the table shape
// is computed (spanner colspans, per-cell alignment), and assembling it
// cell by cell is clearer than driving a template through nested ranges.
type HTMLWriter struct {
	baseWriter

	// fragment suppresses the surrounding <html> document, emitting only
	// the <table> element for embedding in a larger page.
	fragment bool
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithFragment emits only the table element, without the document shell.
func WithFragment() HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.fragment = true
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the artifact as an HTML document.
func (w *HTMLWriter) Write(artifact *model.Artifact) (int, error) {
	var sb strings.Builder

	if !w.fragment {
		w.writeDocumentHead(&sb, artifact)
	}

	sb.WriteString("<table>\n")
	w.writeCaption(&sb, artifact)
	w.writeHead(&sb, artifact)
	w.writeBody(&sb, artifact)
	w.writeFoot(&sb, artifact)
	sb.WriteString("</table>\n")

	if !w.fragment {
		sb.WriteString("</body>\n</html>\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// writeDocumentHead writes the document shell up to the open <body>.
func (w *HTMLWriter) writeDocumentHead(sb *strings.Builder, artifact *model.Artifact) {
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(sb, "<title>%s</title>\n", html.EscapeString(artifact.Title))
	fmt.Fprintf(sb, "<style>\n%s\n</style>\n", htmlStyle)
	sb.WriteString("</head>\n<body>\n")
}

// writeCaption writes the table caption with title and subtitle.
func (w *HTMLWriter) writeCaption(sb *strings.Builder, artifact *model.Artifact) {
	sb.WriteString("<caption>")
	sb.WriteString(html.EscapeString(artifact.Title))
	if artifact.Subtitle != "" {
		fmt.Fprintf(sb, "<span class=\"subtitle\">%s</span>", html.EscapeString(artifact.Subtitle))
	}
	sb.WriteString("</caption>\n")
}

// writeHead writes the header block: an optional spanner band row
// followed by the column label row.
func (w *HTMLWriter) writeHead(sb *strings.Builder, artifact *model.Artifact) {
	visible := artifact.VisibleColumns()

	sb.WriteString("<thead>\n")
	if w.hasVisibleSpanner(artifact, visible) {
		w.writeSpannerRow(sb, artifact, visible)
	}

	sb.WriteString("<tr>")
	for _, col := range visible {
		label := html.EscapeString(col.JoinLabel("\n"))
		label = strings.ReplaceAll(label, "\n", "<br>")
		fmt.Fprintf(sb, "<th>%s</th>", label)
	}
	sb.WriteString("</tr>\n</thead>\n")
}

// hasVisibleSpanner reports whether any spanner covers a visible column.
func (w *HTMLWriter) hasVisibleSpanner(artifact *model.Artifact, visible []model.Column) bool {
	for _, col := range visible {
		if _, ok := artifact.SpannerOf(col.Name); ok {
			return true
		}
	}
	return false
}

// writeSpannerRow writes the band row: one cell with colspan for each
// run of consecutive visible columns sharing a spanner, and an empty
// cell for every uncovered column.
func (w *HTMLWriter) writeSpannerRow(sb *strings.Builder, artifact *model.Artifact, visible []model.Column) {
	sb.WriteString("<tr class=\"spanner\">")
	for i := 0; i < len(visible); {
		label, ok := artifact.SpannerOf(visible[i].Name)
		if !ok {
			sb.WriteString("<th></th>")
			i++
			continue
		}

		span := 1
		for i+span < len(visible) {
			next, covered := artifact.SpannerOf(visible[i+span].Name)
			if !covered || next != label {
				break
			}
			span++
		}

		fmt.Fprintf(sb, "<th class=\"band\" colspan=\"%d\">%s</th>", span, html.EscapeString(label))
		i += span
	}
	sb.WriteString("</tr>\n")
}

// writeBody writes the data rows. Numeric-role cells carry the "num"
// class so the stylesheet right-aligns them.
func (w *HTMLWriter) writeBody(sb *strings.Builder, artifact *model.Artifact) {
	visible := artifact.VisibleColumns()
	indexes := artifact.VisibleIndexes()

	sb.WriteString("<tbody>\n")
	for _, row := range artifact.Rows {
		sb.WriteString("<tr>")
		for vi, i := range indexes {
			cell := html.EscapeString(row[i])
			if visible[vi].Role.Numeric() {
				fmt.Fprintf(sb, "<td class=\"num\">%s</td>", cell)
			} else {
				fmt.Fprintf(sb, "<td>%s</td>", cell)
			}
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n")
}

// writeFoot writes the footnote rows spanning the visible width.
func (w *HTMLWriter) writeFoot(sb *strings.Builder, artifact *model.Artifact) {
	if len(artifact.Footnotes) == 0 {
		return
	}

	width := len(artifact.VisibleColumns())
	sb.WriteString("<tfoot>\n")
	for _, note := range artifact.Footnotes {
		fmt.Fprintf(sb, "<tr><td colspan=\"%d\">%s</td></tr>\n", width, html.EscapeString(note))
	}
	sb.WriteString("</tfoot>\n")
}
