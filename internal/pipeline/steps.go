package pipeline

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clintab/clintab/internal/model"
)

// formatCellsStage applies the compiled per-column formatters. Columns
// without a formatter pass through untouched; a text cell under a
// numeric formatter aborts the build.
type formatCellsStage struct{}

// Name returns the stage name.
func (formatCellsStage) Name() string { return "format_cells" }

// Do applies each column's formatter cell by cell.
func (formatCellsStage) Do(_ context.Context, st *buildState) error {
	for _, plan := range st.compiled.Columns {
		if plan.Formatter == nil {
			continue
		}
		formatter := plan.Formatter
		next, err := st.dataset.MapColumn(plan.Name, func(_ int, c model.Cell) (model.Cell, error) {
			return formatter.Format(c)
		})
		if err != nil {
			return err
		}
		st.dataset = next
	}
	return nil
}

// mergeColumnsStage concatenates each merge pair's display strings onto
// the primary column and marks the secondary for hiding. Pairs apply in
// order, so a column already merged may be the primary of a later pair.
type mergeColumnsStage struct{}

// Name returns the stage name.
func (mergeColumnsStage) Name() string { return "merge_columns" }

// Do runs the merge pairs in specification order.
func (mergeColumnsStage) Do(_ context.Context, st *buildState) error {
	for _, m := range st.compiled.Merges {
		next, err := st.dataset.ZipColumns(m.Primary, m.Secondary, func(_ int, p, s model.Cell) (model.Cell, error) {
			return mergeCells(p, s)
		})
		if err != nil {
			return err
		}
		st.dataset = next
		st.mergeHidden[m.Secondary] = true
	}
	return nil
}

// mergeCells combines one row of a merge pair. Both cells missing stays
// missing; otherwise each missing side contributes an empty string.
func mergeCells(p, s model.Cell) (model.Cell, error) {
	if p.IsMissing() && s.IsMissing() {
		return model.Missing(), nil
	}
	pd, err := mergeDisplay(p)
	if err != nil {
		return model.Cell{}, err
	}
	sd, err := mergeDisplay(s)
	if err != nil {
		return model.Cell{}, err
	}
	return model.Text(pd + sd), nil
}

// mergeDisplay reads a cell's display string for merging. Raw numeric
// cells are a hard failure: merge runs after formatting and never
// concatenates unformatted values.
func mergeDisplay(c model.Cell) (string, error) {
	if c.IsMissing() {
		return "", nil
	}
	s, ok := c.Text()
	if !ok {
		return "", ErrUnformattedMerge
	}
	return s, nil
}

// substituteMissingStage turns every remaining non-text cell into its
// display string: missing cells become the specification's missing
// text, and numeric cells no formatter claimed render in shortest
// exact notation. After this stage the dataset is all text.
type substituteMissingStage struct{}

// Name returns the stage name.
func (substituteMissingStage) Name() string { return "substitute_missing" }

// Do replaces every non-text cell with its display text.
func (substituteMissingStage) Do(_ context.Context, st *buildState) error {
	missingText := st.compiled.Spec.MissingText()
	next, err := st.dataset.MapCells(func(_ string, _ int, c model.Cell) (model.Cell, error) {
		if _, ok := c.Text(); ok {
			return c, nil
		}
		return model.Text(c.Display(missingText)), nil
	})
	if err != nil {
		return err
	}
	st.dataset = next
	return nil
}

// hideColumnsStage drops hidden columns from the visible set: the
// specification's hide selectors plus every merge secondary. Hiding is
// set-union, so the result is independent of selector order. Hidden
// columns keep their data and labels.
type hideColumnsStage struct{}

// Name returns the stage name.
func (hideColumnsStage) Name() string { return "hide_columns" }

// Do marks hidden columns invisible.
func (hideColumnsStage) Do(_ context.Context, st *buildState) error {
	for i, plan := range st.compiled.Columns {
		if plan.Hidden || st.mergeHidden[plan.Name] {
			st.columns[i].Visible = false
		}
	}
	return nil
}

// attachHeaderStage attaches the title and subtitle.
type attachHeaderStage struct{}

// Name returns the stage name.
func (attachHeaderStage) Name() string { return "attach_header" }

// Do copies the header text from the specification.
func (attachHeaderStage) Do(_ context.Context, st *buildState) error {
	st.title = st.compiled.Spec.Title()
	st.subtitle = st.compiled.Spec.Subtitle()
	return nil
}

// relabelColumnsStage applies the compiled label lines. Relabeling
// addresses pre-hide column identities, so hidden columns carry labels
// too and stay presentable if later revealed. With auto-labeling,
// unlabeled columns get a humanized form of their name.
type relabelColumnsStage struct{}

// Name returns the stage name.
func (relabelColumnsStage) Name() string { return "relabel_columns" }

// Do fills each column's label lines.
func (relabelColumnsStage) Do(_ context.Context, st *buildState) error {
	for i, plan := range st.compiled.Columns {
		switch {
		case plan.Label != nil:
			st.columns[i].Label = append([]string(nil), plan.Label...)
		case st.compiled.AutoLabel:
			st.columns[i].Label = []string{humanizeColumn(plan.Name)}
		}
	}
	return nil
}

// humanizeColumn turns a dataset column name into a presentable label:
// underscores become spaces and words are title-cased.
func humanizeColumn(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// attachSpannersStage attaches the header bands.
type attachSpannersStage struct{}

// Name returns the stage name.
func (attachSpannersStage) Name() string { return "attach_spanners" }

// Do copies the compiled spanners onto the build state.
func (attachSpannersStage) Do(_ context.Context, st *buildState) error {
	st.spanners = make([]model.Spanner, len(st.compiled.Spanners))
	for i, sp := range st.compiled.Spanners {
		st.spanners[i] = model.Spanner{
			Label:   sp.Label,
			Columns: append([]string(nil), sp.Columns...),
		}
	}
	return nil
}

// datePlaceholder is the footnote marker replaced with the build date.
const datePlaceholder = "{date}"

// attachFootnotesStage appends the ordered footnotes, substituting the
// date placeholder with the build date from the injected clock.
type attachFootnotesStage struct{}

// Name returns the stage name.
func (attachFootnotesStage) Name() string { return "attach_footnotes" }

// Do renders the footnote texts.
func (attachFootnotesStage) Do(_ context.Context, st *buildState) error {
	notes := st.compiled.Spec.Footnotes()
	if len(notes) == 0 {
		return nil
	}
	date := st.clock().Format("2006-01-02")
	st.footnotes = make([]string, len(notes))
	for i, note := range notes {
		st.footnotes[i] = strings.ReplaceAll(note, datePlaceholder, date)
	}
	return nil
}
