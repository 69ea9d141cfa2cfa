package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clintab/clintab/internal/model"
	"github.com/clintab/clintab/internal/spec"
)

// stage is one step of the fixed build sequence. Stages mutate the
// build state they are handed; the dataset inside it stays immutable,
// each transforming stage swapping in a fresh version.
type stage interface {
	// Do executes the stage against the accumulated build state.
	Do(ctx context.Context, st *buildState) error

	// Name returns the stage's name for logging and error wrapping.
	Name() string
}

// buildState carries one build invocation through the stages: the
// current dataset version plus the presentation metadata accumulated so
// far. It is exclusively owned by its invocation and never shared.
type buildState struct {
	compiled *spec.Compiled
	dataset  *model.Dataset
	clock    func() time.Time

	// mergeHidden collects merge secondaries for the hide stage.
	mergeHidden map[string]bool

	columns   []model.Column
	title     string
	subtitle  string
	spanners  []model.Spanner
	footnotes []string
}

// Builder runs the report pipeline for one compiled specification.
// A Builder is safe to reuse across datasets with matching headers;
// every Build call works on state exclusively owned by that call.
type Builder struct {
	compiled *spec.Compiled
	logger   *slog.Logger
	clock    func() time.Time
	source   model.Source
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithClock sets the time source used for the build timestamp and the
// footnote date stamp. Tests inject a fixed clock for determinism.
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithSource records where the dataset came from on the artifact.
func WithSource(source model.Source) Option {
	return func(b *Builder) {
		b.source = source
	}
}

// New creates a Builder for the given compiled specification.
func New(compiled *spec.Compiled, opts ...Option) *Builder {
	b := &Builder{
		compiled: compiled,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// stages returns the fixed build sequence.
func stages() []stage {
	return []stage{
		formatCellsStage{},
		mergeColumnsStage{},
		substituteMissingStage{},
		hideColumnsStage{},
		attachHeaderStage{},
		relabelColumnsStage{},
		attachSpannersStage{},
		attachFootnotesStage{},
	}
}

// StageNames returns the names of the build stages in execution order.
func StageNames() []string {
	all := stages()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name()
	}
	return names
}

// Build runs every stage in sequence and returns the finished artifact.
// It respects context cancellation between stages. On any error no
// artifact is returned at all.
func (b *Builder) Build(ctx context.Context, ds *model.Dataset) (*model.Artifact, error) {
	if err := b.checkColumns(ds); err != nil {
		return nil, err
	}

	st := &buildState{
		compiled:    b.compiled,
		dataset:     ds,
		clock:       b.clock,
		mergeHidden: make(map[string]bool),
		columns:     make([]model.Column, len(b.compiled.Columns)),
	}
	for i, plan := range b.compiled.Columns {
		st.columns[i] = model.Column{Name: plan.Name, Role: plan.Role, Visible: true}
	}

	for _, s := range stages() {
		select {
		case <-ctx.Done():
			b.logger.Warn("build cancelled",
				"stage", s.Name(),
				"report", b.compiled.Spec.Title(),
				"reason", ctx.Err(),
			)
			return nil, ctx.Err()
		default:
		}

		b.logger.Info("executing stage",
			"stage", s.Name(),
			"report", b.compiled.Spec.Title(),
		)

		if err := s.Do(ctx, st); err != nil {
			b.logger.Error("stage failed",
				"stage", s.Name(),
				"report", b.compiled.Spec.Title(),
				"error", err,
			)
			return nil, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}

	return b.assemble(st), nil
}

// checkColumns verifies the dataset carries exactly the columns the
// specification was compiled against, in the same order.
func (b *Builder) checkColumns(ds *model.Dataset) error {
	columns := ds.Columns()
	if len(columns) != len(b.compiled.Columns) {
		return fmt.Errorf("have %d columns, compiled for %d: %w",
			len(columns), len(b.compiled.Columns), ErrColumnMismatch)
	}
	for i, plan := range b.compiled.Columns {
		if columns[i] != plan.Name {
			return fmt.Errorf("column %d is %q, compiled for %q: %w",
				i, columns[i], plan.Name, ErrColumnMismatch)
		}
	}
	return nil
}

// assemble projects the final build state into a read-only artifact.
// Every cell is text by this point; Display is a plain payload read.
func (b *Builder) assemble(st *buildState) *model.Artifact {
	missingText := st.compiled.Spec.MissingText()

	rows := make([][]string, st.dataset.NumRows())
	for r := range rows {
		row := make([]string, len(st.columns))
		for i, col := range st.columns {
			cell, err := st.dataset.Cell(r, col.Name)
			if err != nil {
				// checkColumns guarantees the column exists.
				continue
			}
			row[i] = cell.Display(missingText)
		}
		rows[r] = row
	}

	return &model.Artifact{
		Title:     st.title,
		Subtitle:  st.subtitle,
		Columns:   st.columns,
		Rows:      rows,
		Spanners:  st.spanners,
		Footnotes: st.footnotes,
		BuiltAt:   b.clock(),
		Source:    b.source,
	}
}

// Render compiles the specification against the dataset's header and
// builds the artifact in one call. It is the convenience entry point
// for callers that build a report exactly once.
func Render(ctx context.Context, ds *model.Dataset, s *spec.Specification, opts ...Option) (*model.Artifact, error) {
	compiled, err := s.Compile(ds.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to compile specification: %w", err)
	}
	return New(compiled, opts...).Build(ctx, ds)
}
