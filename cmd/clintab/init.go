package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clintab/clintab/internal/spec"
)

//go:embed templates/report.yaml
var specTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new report specification file",
		Long: `Initialize creates a new report.yaml specification file in the current directory.

The generated file includes:
- A worked demographic-table example with formatting rules
- Commented examples for merges, spanners, labels, and hiding
- Documentation for all available options

Examples:
  # Create report.yaml in current directory
  clintab init

  # Create a specification at a specific path
  clintab init -o demog.yaml

  # Force overwrite existing file
  clintab init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", spec.DefaultSpecFile,
		"Output file path for the specification")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing specification file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("specification file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := specTemplate.ReadFile("templates/report.yaml")
	if err != nil {
		return fmt.Errorf("failed to read specification template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write specification file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write specification file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created specification file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to describe your table:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Formatting rules per column (integer, percent, fixed, signif)")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Count/percentage merges and hidden columns")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Header labels, spanners, and footnotes")

	return nil
}
