// Package main provides the entry point for the clintab CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for clintab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clintab",
		Short: "Render clinical summary tables from CSV data",
		Long: `clintab renders clinical summary tables (demographics, adverse events,
vital signs) from CSV data and declarative report specifications.

A report specification assigns formatting rules to columns, merges count
and percentage columns into composite displays, and attaches headers,
spanners, and source-note footers. The rendered table is written as a
standalone HTML document by default; markdown, JSON, and plain text are
also available.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
