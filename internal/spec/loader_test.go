package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clintab/clintab/internal/model"
)

const demogYAML = `title: "Demographic and Baseline Characteristics"
subtitle: "Safety Population"
data: adsl_demog.csv
rules:
  - role: label
    select:
      columns: [label]
  - role: group-count
    select:
      suffix: _n
    format:
      kind: integer
  - role: percentage
    select:
      suffix: _pct
    format:
      kind: percent
      scale: true
      prefix: " ("
      suffix: ")"
  - role: p-value
    select:
      columns: [p]
    format:
      kind: fixed
      decimals: 4
merges:
  - primary: placebo_n
    secondary: placebo_pct
labels:
  placebo_n: "Placebo\n(N=86)"
spanners:
  - label: "Treatment Group"
    columns: [placebo_n, xanomeline_n]
hide:
  - suffix: _pct
missing_text: ""
footnotes:
  - "Source: ADSL data cut {date}."
auto_label: true
`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("full specification parses and compiles", func(t *testing.T) {
		t.Parallel()

		s, err := Load([]byte(demogYAML))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.Title() != "Demographic and Baseline Characteristics" {
			t.Errorf("unexpected title %q", s.Title())
		}
		if s.DataPath() != "adsl_demog.csv" {
			t.Errorf("unexpected data path %q", s.DataPath())
		}

		compiled, err := s.Compile([]string{"label", "placebo_n", "placebo_pct", "xanomeline_n", "xanomeline_pct", "p"})
		if err != nil {
			t.Fatalf("unexpected compile error: %v", err)
		}

		plan, _ := compiled.Plan("placebo_pct")
		if plan.Role != model.RolePercentage {
			t.Errorf("expected percentage role, got %v", plan.Role)
		}
		if !plan.Hidden {
			t.Error("expected placebo_pct hidden")
		}

		plan, _ = compiled.Plan("placebo_n")
		if len(plan.Label) != 2 {
			t.Errorf("expected two label lines, got %v", plan.Label)
		}
		if !compiled.AutoLabel {
			t.Error("expected auto_label to carry through")
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		t.Parallel()

		in := "title: T\nrules:\n  - role: frequency\n    select:\n      suffix: _n\n"
		if _, err := Load([]byte(in)); err == nil {
			t.Error("expected error for unknown role")
		}
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := Load([]byte("subtitle: S\n")); !errors.Is(err, ErrNoTitle) {
			t.Errorf("expected ErrNoTitle, got %v", err)
		}
	})

	t.Run("malformed YAML is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := Load([]byte("title: [unclosed")); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads a specification file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "demog.yaml")
		if err := os.WriteFile(path, []byte(demogYAML), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		s, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Subtitle() != "Safety Population" {
			t.Errorf("unexpected subtitle %q", s.Subtitle())
		}
	})

	t.Run("missing file is ErrSpecNotFound", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "absent.yaml")
		if _, err := LoadFile(path); !errors.Is(err, ErrSpecNotFound) {
			t.Errorf("expected ErrSpecNotFound, got %v", err)
		}
	})
}

func TestFindFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("title: T\n"), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		if got := FindFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindFile(filepath.Join(t.TempDir(), "absent.yaml")); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}
