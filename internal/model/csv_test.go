package model

import (
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	t.Run("parses header and typed rows", func(t *testing.T) {
		t.Parallel()

		input := "label,drug_n,drug_pct\n" +
			"Female,45,0.523\n" +
			"Male,41,NA\n"

		ds, err := ReadCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := ds.Columns(); len(got) != 3 || got[0] != "label" || got[2] != "drug_pct" {
			t.Errorf("expected header columns, got %v", got)
		}
		if ds.NumRows() != 2 {
			t.Fatalf("expected 2 rows, got %d", ds.NumRows())
		}

		c, err := ds.Cell(0, "label")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s, ok := c.Text(); !ok || s != "Female" {
			t.Errorf("expected text Female, got %q (text=%v)", s, ok)
		}

		c, err = ds.Cell(0, "drug_pct")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v, ok := c.Number(); !ok || v != 0.523 {
			t.Errorf("expected 0.523, got %v (numeric=%v)", v, ok)
		}

		c, err = ds.Cell(1, "drug_pct")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.IsMissing() {
			t.Errorf("expected NA to parse as missing, got kind %v", c.Kind())
		}
	})

	t.Run("strips byte-order mark from first header field", func(t *testing.T) {
		t.Parallel()

		input := "\uFEFFlabel,drug_n\nn,86\n"
		ds, err := ReadCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ds.HasColumn("label") {
			t.Errorf("expected BOM-free column label, got %v", ds.Columns())
		}
	})

	t.Run("trims whitespace around header names", func(t *testing.T) {
		t.Parallel()

		input := "label , drug_n\nn,86\n"
		ds, err := ReadCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ds.HasColumn("label") || !ds.HasColumn("drug_n") {
			t.Errorf("expected trimmed columns, got %v", ds.Columns())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := ReadCSV(strings.NewReader(""))
		if !errors.Is(err, ErrEmptyCSV) {
			t.Errorf("expected ErrEmptyCSV, got %v", err)
		}
	})

	t.Run("header-only input yields empty dataset", func(t *testing.T) {
		t.Parallel()

		ds, err := ReadCSV(strings.NewReader("label,drug_n\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.NumRows() != 0 {
			t.Errorf("expected 0 rows, got %d", ds.NumRows())
		}
	})

	t.Run("duplicate header columns", func(t *testing.T) {
		t.Parallel()

		_, err := ReadCSV(strings.NewReader("label,label\nn,86\n"))
		if !errors.Is(err, ErrDuplicateColumn) {
			t.Errorf("expected ErrDuplicateColumn, got %v", err)
		}
	})

	t.Run("ragged record is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ReadCSV(strings.NewReader("label,drug_n\nn\n"))
		if err == nil {
			t.Error("expected error for ragged record")
		}
	})

	t.Run("quoted fields with embedded commas", func(t *testing.T) {
		t.Parallel()

		input := "label,drug_n\n\"Mean, adjusted\",12\n"
		ds, err := ReadCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c, err := ds.Cell(0, "label")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s, _ := c.Text(); s != "Mean, adjusted" {
			t.Errorf("expected quoted field preserved, got %q", s)
		}
	})
}
