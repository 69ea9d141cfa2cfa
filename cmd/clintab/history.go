package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clintab/clintab/internal/archive"
	"github.com/clintab/clintab/internal/config"
)

// NewHistoryCmd creates the history command.
// This command inspects archived renders and compares data cuts.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [report]",
		Short: "Inspect archived renders and compare data cuts",
		Long: `History reads the render archive and shows what changed between renders
of a report.

By default it compares the latest two archived renders cell by cell,
which is how value changes between data cuts get quality-checked before
a delivery goes out. The archive is populated by 'clintab render
--archive'.

Examples:
  # Compare the latest two renders of a report
  clintab history demog

  # List render history for a report
  clintab history --list demog

  # Compare the latest render with a specific archived render by ID
  clintab history --with-render-id 5 demog

  # Output the comparison in JSON format
  clintab history --json demog

  # List all archived reports
  clintab history --list-reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List render history for the specified report")
	cmd.Flags().BoolP("list-reports", "L", false,
		"List all archived reports")

	// Comparison target flags
	cmd.Flags().Int64P("with-render-id", "i", 0,
		"Compare the latest render with a specific render by ID (use --list to see available IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	// Archive location
	cmd.Flags().String("archive-dir", "",
		"Archive directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listReports, err := cmd.Flags().GetBool("list-reports")
	if err != nil {
		return err
	}

	// Validate arguments before opening the archive
	var report string
	if !listReports {
		if len(args) == 0 {
			return errors.New("report name is required (use --list-reports to see archived reports)")
		}
		report = args[0]
	}

	archiveDir, err := cmd.Flags().GetString("archive-dir")
	if err != nil {
		return err
	}
	if archiveDir == "" {
		archiveDir = config.XDGDataDir()
	}

	// The archive is read here, never created: a missing archive means
	// nothing was ever rendered with --archive.
	arc, err := archive.Open(archiveDir, archive.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer arc.Close()

	ctx := context.Background()

	if listReports {
		return listArchivedReports(ctx, cmd, arc)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listRenderHistory(ctx, cmd, arc, report)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withRenderID, err := cmd.Flags().GetInt64("with-render-id")
	if err != nil {
		return err
	}

	return runDiff(ctx, cmd, arc, report, withRenderID, jsonOutput)
}

// listArchivedReports lists all reports with renders in the archive.
func listArchivedReports(ctx context.Context, cmd *cobra.Command, arc *archive.Archive) error {
	reports, err := arc.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No archived reports found.")
		fmt.Fprintln(out, "\nUse 'clintab render --archive' to archive a render.")
		return nil
	}

	fmt.Fprintf(out, "Archived reports (%d):\n\n", len(reports))
	for _, report := range reports {
		fmt.Fprintf(out, "  %s\n", report)
	}
	fmt.Fprintln(out, "\nUse 'clintab history --list <report>' to see render history for a report.")

	return nil
}

// listRenderHistory lists all archived renders for a report.
func listRenderHistory(ctx context.Context, cmd *cobra.Command, arc *archive.Archive, report string) error {
	history, err := arc.RenderHistory(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to get render history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "No render history found for %s\n", report)
		fmt.Fprintln(out, "\nUse 'clintab render --archive' to archive a render of this report.")
		return nil
	}

	fmt.Fprintf(out, "Render history for %s (%d renders):\n\n", report, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-12s  %s\n", "ID", "Date", "Format", "Digest", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, rec := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %-12s  %s\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Format,
			shortDigest(rec.SourceDigest),
			rec.SourcePath,
		)
	}

	fmt.Fprintln(out, "\nUse 'clintab history <report>' to compare the latest two renders.")
	fmt.Fprintln(out, "Use 'clintab history --with-render-id <id> <report>' to compare with a specific render.")

	return nil
}

// shortDigest abbreviates a source digest for table display.
func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}

// runDiff compares archived renders and prints the result.
func runDiff(ctx context.Context, cmd *cobra.Command, arc *archive.Archive, report string, withRenderID int64, jsonOutput bool) error {
	var diff *archive.Diff
	var err error

	if withRenderID > 0 {
		history, err := arc.RenderHistory(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to get render history: %w", err)
		}
		if len(history) == 0 {
			return fmt.Errorf("no render history found for %s", report)
		}
		diff, err = arc.DiffByID(ctx, report, withRenderID, history[0].ID)
		if err != nil {
			return err
		}
	} else {
		diff, err = arc.DiffRenders(ctx, report)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(diff)
	}

	return outputDiffText(cmd, diff)
}

// outputDiffText prints a human-readable diff summary.
func outputDiffText(cmd *cobra.Command, diff *archive.Diff) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Comparing renders of %s (#%d -> #%d)\n\n", diff.Report, diff.BeforeID, diff.AfterID)

	if diff.SourceChanged {
		fmt.Fprintln(out, "Source data changed between renders.")
	} else {
		fmt.Fprintln(out, "Source data is unchanged.")
	}

	if !diff.Changed() {
		fmt.Fprintln(out, "\nNo differences found.")
		return nil
	}

	if diff.RowDelta != 0 {
		fmt.Fprintf(out, "Row count changed by %+d.\n", diff.RowDelta)
	}
	if len(diff.AddedColumns) > 0 {
		fmt.Fprintf(out, "Added columns: %s\n", strings.Join(diff.AddedColumns, ", "))
	}
	if len(diff.RemovedColumns) > 0 {
		fmt.Fprintf(out, "Removed columns: %s\n", strings.Join(diff.RemovedColumns, ", "))
	}

	if len(diff.Cells) > 0 {
		fmt.Fprintf(out, "\nChanged cells (%d):\n\n", len(diff.Cells))
		fmt.Fprintf(out, "  %-5s  %-20s  %-20s  %s\n", "Row", "Column", "Before", "After")
		fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
		for _, cell := range diff.Cells {
			fmt.Fprintf(out, "  %-5d  %-20s  %-20s  %s\n", cell.Row, cell.Column, cell.Before, cell.After)
		}
	}

	return nil
}
