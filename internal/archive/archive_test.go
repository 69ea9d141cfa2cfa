package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clintab/clintab/internal/model"
)

// setupTestArchive creates a temporary archive for testing.
func setupTestArchive(t *testing.T) *Archive {
	t.Helper()

	a, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return a
}

// demogArtifact builds a small demographic artifact fixture. The digest
// parameter stands in for the data cut it was built from.
func demogArtifact(digest string, rows [][]string) *model.Artifact {
	return &model.Artifact{
		Title: "Demographic and Baseline Characteristics",
		Columns: []model.Column{
			{Name: "label", Role: model.RoleLabel, Visible: true},
			{Name: "placebo_n", Role: model.RoleGroupCount, Visible: true},
		},
		Rows:    rows,
		BuiltAt: time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC),
		Source:  model.Source{Path: "adsl.csv", Digest: digest},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates archive in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		a, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}
		defer a.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "clintab.db")); os.IsNotExist(err) {
			t.Error("archive file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when archive does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent")
		opts := Options{CreateIfNotExists: false, EnableWAL: true}

		if _, err := Open(dbDir, opts); err == nil {
			t.Error("expected an error for a missing archive")
		}
	})
}

func TestArchive_SaveAndLatestRender(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()

	first := demogArtifact("cut-1", [][]string{{"n", "86"}})
	second := demogArtifact("cut-2", [][]string{{"n", "84"}})

	if _, err := a.SaveRender(ctx, "demog", "html", first); err != nil {
		t.Fatalf("failed to save render: %v", err)
	}
	id, err := a.SaveRender(ctx, "demog", "html", second)
	if err != nil {
		t.Fatalf("failed to save render: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected a positive render ID, got %d", id)
	}

	t.Run("latest returns the newest render", func(t *testing.T) {
		latest, err := a.LatestRender(ctx, "demog")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest == nil {
			t.Fatal("expected a render")
		}
		if latest.Source.Digest != "cut-2" {
			t.Errorf("expected digest %q, got %q", "cut-2", latest.Source.Digest)
		}
		if got, _ := latest.Value(0, "placebo_n"); got != "84" {
			t.Errorf("expected %q, got %q", "84", got)
		}
	})

	t.Run("latest for unknown report is nil", func(t *testing.T) {
		latest, err := a.LatestRender(ctx, "unknown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest != nil {
			t.Error("expected nil render for unknown report")
		}
	})

	t.Run("render by ID round-trips the artifact", func(t *testing.T) {
		got, err := a.RenderByID(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != second.Title {
			t.Errorf("unexpected title %q", got.Title)
		}
	})

	t.Run("render by unknown ID", func(t *testing.T) {
		if _, err := a.RenderByID(ctx, 9999); !errors.Is(err, ErrRenderNotFound) {
			t.Errorf("expected ErrRenderNotFound, got %v", err)
		}
	})
}

func TestArchive_RenderHistory(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()

	for i, digest := range []string{"cut-1", "cut-2", "cut-3"} {
		art := demogArtifact(digest, [][]string{{"n", "86"}})
		if _, err := a.SaveRender(ctx, "demog", "html", art); err != nil {
			t.Fatalf("failed to save render %d: %v", i, err)
		}
	}

	history, err := a.RenderHistory(ctx, "demog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}

	// Newest first.
	if history[0].SourceDigest != "cut-3" || history[2].SourceDigest != "cut-1" {
		t.Errorf("expected newest-first order, got %q .. %q",
			history[0].SourceDigest, history[2].SourceDigest)
	}
	for _, rec := range history {
		if rec.Report != "demog" || rec.Format != "html" {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.Title != "Demographic and Baseline Characteristics" {
			t.Errorf("unexpected title %q", rec.Title)
		}
		if rec.SourcePath != "adsl.csv" {
			t.Errorf("unexpected source path %q", rec.SourcePath)
		}
	}
}

func TestArchive_ListReports(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()

	for _, report := range []string{"vitals", "demog", "demog"} {
		art := demogArtifact("cut-1", [][]string{{"n", "86"}})
		if _, err := a.SaveRender(ctx, report, "html", art); err != nil {
			t.Fatalf("failed to save render: %v", err)
		}
	}

	reports, err := a.ListReports(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 2 || reports[0] != "demog" || reports[1] != "vitals" {
		t.Errorf("expected [demog vitals], got %v", reports)
	}
}

func TestArchive_DiffRenders(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()

	before := demogArtifact("cut-1", [][]string{{"n", "86"}, {"Age >= 65", "45 (52%)"}})
	after := demogArtifact("cut-2", [][]string{{"n", "84"}, {"Age >= 65", "45 (52%)"}})

	if _, err := a.SaveRender(ctx, "demog", "html", before); err != nil {
		t.Fatalf("failed to save render: %v", err)
	}
	if _, err := a.SaveRender(ctx, "demog", "html", after); err != nil {
		t.Fatalf("failed to save render: %v", err)
	}

	diff, err := a.DiffRenders(ctx, "demog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !diff.Changed() {
		t.Error("expected a changed diff")
	}
	if !diff.SourceChanged {
		t.Error("expected source digests to differ")
	}
	if len(diff.Cells) != 1 {
		t.Fatalf("expected 1 cell diff, got %d", len(diff.Cells))
	}
	cd := diff.Cells[0]
	if cd.Row != 0 || cd.Column != "placebo_n" || cd.Before != "86" || cd.After != "84" {
		t.Errorf("unexpected cell diff %+v", cd)
	}
}

func TestArchive_DiffRenders_NotEnoughRenders(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()

	art := demogArtifact("cut-1", [][]string{{"n", "86"}})
	if _, err := a.SaveRender(ctx, "demog", "html", art); err != nil {
		t.Fatalf("failed to save render: %v", err)
	}

	if _, err := a.DiffRenders(ctx, "demog"); !errors.Is(err, ErrNotEnoughRenders) {
		t.Errorf("expected ErrNotEnoughRenders, got %v", err)
	}
}

func TestDiffArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("identical artifacts do not change", func(t *testing.T) {
		t.Parallel()

		art := demogArtifact("cut-1", [][]string{{"n", "86"}})
		d := DiffArtifacts(art, art)
		if d.Changed() {
			t.Errorf("expected no change, got %+v", d)
		}
	})

	t.Run("column and row population changes", func(t *testing.T) {
		t.Parallel()

		before := demogArtifact("cut-1", [][]string{{"n", "86"}})
		after := &model.Artifact{
			Title: before.Title,
			Columns: []model.Column{
				{Name: "label", Role: model.RoleLabel, Visible: true},
				{Name: "xanomeline_n", Role: model.RoleGroupCount, Visible: true},
			},
			Rows:   [][]string{{"n", "84"}, {"Age >= 65", "40"}},
			Source: model.Source{Digest: "cut-1"},
		}

		d := DiffArtifacts(before, after)
		if d.RowDelta != 1 {
			t.Errorf("expected row delta 1, got %d", d.RowDelta)
		}
		if len(d.AddedColumns) != 1 || d.AddedColumns[0] != "xanomeline_n" {
			t.Errorf("unexpected added columns %v", d.AddedColumns)
		}
		if len(d.RemovedColumns) != 1 || d.RemovedColumns[0] != "placebo_n" {
			t.Errorf("unexpected removed columns %v", d.RemovedColumns)
		}
		if d.SourceChanged {
			t.Error("expected same source digest")
		}

		// The shared label column gains a row: the new tail cell shows
		// up as a diff with an empty before side.
		found := false
		for _, cd := range d.Cells {
			if cd.Row == 1 && cd.Column == "label" && cd.Before == "" && cd.After == "Age >= 65" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a tail-row cell diff on label, got %v", d.Cells)
		}
	})
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest([]byte("label,placebo_n\nn,86\n"))
	b := Digest([]byte("label,placebo_n\nn,84\n"))

	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a == b {
		t.Error("expected differing inputs to produce differing digests")
	}
	if a != Digest([]byte("label,placebo_n\nn,86\n")) {
		t.Error("expected the digest to be deterministic")
	}
}
