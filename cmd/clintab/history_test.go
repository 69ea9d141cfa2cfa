package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clintab/clintab/internal/archive"
	"github.com/clintab/clintab/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [report]" {
			t.Errorf("expected use 'history [report]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has list-reports flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list-reports")
		if flag == nil {
			t.Fatal("expected list-reports flag")
		}
		if flag.Shorthand != "L" {
			t.Errorf("expected shorthand 'L', got %q", flag.Shorthand)
		}
	})

	t.Run("has with-render-id flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("with-render-id")
		if flag == nil {
			t.Fatal("expected with-render-id flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has archive-dir flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("archive-dir")
		if flag == nil {
			t.Fatal("expected archive-dir flag")
		}
	})
}

// seedArchive creates an archive in dir with two renders of "demog"
// differing in one cell.
func seedArchive(t *testing.T, dir string) {
	t.Helper()

	arc, err := archive.Open(dir, archive.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer arc.Close()

	ctx := context.Background()

	first := &model.Artifact{
		Title: "Demographics",
		Columns: []model.Column{
			{Name: "label", Label: []string{"Characteristic"}, Role: model.RoleLabel, Visible: true},
			{Name: "placebo_n", Label: []string{"Placebo"}, Role: model.RoleGroupCount, Visible: true},
		},
		Rows:   [][]string{{"Male", "86"}},
		Source: model.Source{Path: "adsl.csv", Digest: "aaaa"},
	}
	if _, err := arc.SaveRender(ctx, "demog", "html", first); err != nil {
		t.Fatalf("failed to save first render: %v", err)
	}

	second := &model.Artifact{
		Title:   first.Title,
		Columns: first.Columns,
		Rows:    [][]string{{"Male", "84"}},
		Source:  model.Source{Path: "adsl.csv", Digest: "bbbb"},
	}
	if _, err := arc.SaveRender(ctx, "demog", "html", second); err != nil {
		t.Fatalf("failed to save second render: %v", err)
	}
}

// runHistory executes the history command through the root command and
// returns its stdout.
func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append([]string{"history"}, args...))

	err := rootCmd.Execute()
	return buf.String(), err
}

// TestRunHistoryCmd tests the history command execution.
func TestRunHistoryCmd(t *testing.T) {
	t.Run("requires report argument", func(t *testing.T) {
		tmpDir := t.TempDir()
		seedArchive(t, tmpDir)

		_, err := runHistory(t, "--archive-dir", tmpDir)
		if err == nil {
			t.Fatal("expected error when no report is given")
		}
		if !strings.Contains(err.Error(), "report name is required") {
			t.Errorf("expected 'report name is required' error, got %v", err)
		}
	})

	t.Run("fails when archive does not exist", func(t *testing.T) {
		tmpDir := t.TempDir()

		_, err := runHistory(t, "--archive-dir", filepath.Join(tmpDir, "missing"), "demog")
		if err == nil {
			t.Error("expected error for missing archive")
		}
	})

	t.Run("lists archived reports", func(t *testing.T) {
		tmpDir := t.TempDir()
		seedArchive(t, tmpDir)

		out, err := runHistory(t, "--archive-dir", tmpDir, "--list-reports")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "demog") {
			t.Errorf("expected report listing to contain 'demog', got:\n%s", out)
		}
	})

	t.Run("lists render history", func(t *testing.T) {
		tmpDir := t.TempDir()
		seedArchive(t, tmpDir)

		out, err := runHistory(t, "--archive-dir", tmpDir, "--list", "demog")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Render history for demog (2 renders)") {
			t.Errorf("expected history header, got:\n%s", out)
		}
		if !strings.Contains(out, "adsl.csv") {
			t.Errorf("expected history to show the source path, got:\n%s", out)
		}
	})

	t.Run("compares the latest two renders", func(t *testing.T) {
		tmpDir := t.TempDir()
		seedArchive(t, tmpDir)

		out, err := runHistory(t, "--archive-dir", tmpDir, "demog")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Comparing renders of demog") {
			t.Errorf("expected comparison header, got:\n%s", out)
		}
		if !strings.Contains(out, "Source data changed") {
			t.Errorf("expected source change note, got:\n%s", out)
		}
		if !strings.Contains(out, "86") || !strings.Contains(out, "84") {
			t.Errorf("expected changed cell values, got:\n%s", out)
		}
	})

	t.Run("outputs comparison as JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		seedArchive(t, tmpDir)

		out, err := runHistory(t, "--archive-dir", tmpDir, "--json", "demog")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var diff archive.Diff
		if err := json.Unmarshal([]byte(out), &diff); err != nil {
			t.Fatalf("expected valid JSON, got error: %v\noutput:\n%s", err, out)
		}
		if diff.Report != "demog" {
			t.Errorf("expected report 'demog', got %q", diff.Report)
		}
		if len(diff.Cells) != 1 {
			t.Fatalf("expected 1 changed cell, got %d", len(diff.Cells))
		}
		if diff.Cells[0].Before != "86" || diff.Cells[0].After != "84" {
			t.Errorf("unexpected cell diff: %+v", diff.Cells[0])
		}
		if !diff.SourceChanged {
			t.Error("expected SourceChanged to be true")
		}
	})

	t.Run("fails with one render only", func(t *testing.T) {
		tmpDir := t.TempDir()

		arc, err := archive.Open(tmpDir, archive.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}
		artifact := &model.Artifact{
			Title:   "Vitals",
			Columns: []model.Column{{Name: "label", Visible: true}},
			Rows:    [][]string{{"Pulse"}},
		}
		if _, err := arc.SaveRender(context.Background(), "vitals", "html", artifact); err != nil {
			t.Fatalf("failed to save render: %v", err)
		}
		arc.Close()

		_, err = runHistory(t, "--archive-dir", tmpDir, "vitals")
		if err == nil {
			t.Error("expected error when only one render is archived")
		}
	})
}
