package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clintab/clintab/internal/archive"
	"github.com/clintab/clintab/internal/config"
	"github.com/clintab/clintab/internal/log"
	"github.com/clintab/clintab/internal/model"
	"github.com/clintab/clintab/internal/pipeline"
	"github.com/clintab/clintab/internal/render"
	"github.com/clintab/clintab/internal/spec"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [data.csv]",
		Short: "Render summary tables from CSV data",
		Long: `Render builds one or more summary tables from CSV data and report
specifications.

Each specification is compiled against the CSV header, the formatting
pipeline runs (cell formatting, merging, hiding, headers, spanners,
footnotes), and the resulting table is written in the selected format.
Several specifications render concurrently as a batch.

Examples:
  # Render one report to stdout as HTML
  clintab render --spec demog.yaml adsl.csv

  # Render to a file
  clintab render --spec demog.yaml -o demog.html adsl.csv

  # Render several reports into a directory
  clintab render --spec demog.yaml --spec vitals.yaml -o out/ adsl.csv

  # Markdown output
  clintab render --spec demog.yaml --markdown adsl.csv

  # Save the render to the archive for later comparison
  clintab render --spec demog.yaml --archive adsl.csv

With no --spec, render looks for report.yaml in the current directory
and then in the home directory.

Specification files may carry their own "data:" path, in which case the
positional CSV argument is optional for them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRenderCmd,
	}

	// Report specifications
	cmd.Flags().StringArrayP("spec", "s", nil,
		"Report specification YAML file (repeatable)")

	// Output format flags
	cmd.Flags().Bool("html", false,
		"Output standalone HTML (default)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output GitHub-flavored markdown")
	cmd.Flags().BoolP("json", "j", false,
		"Output the artifact as JSON")
	cmd.Flags().BoolP("text", "t", false,
		"Output a human-readable text table")
	cmd.Flags().Bool("show-hidden", false,
		"Include hidden columns in text output")
	cmd.Flags().Bool("fragment", false,
		"Emit only the table element in HTML output, without the document shell")

	// Output destination
	cmd.Flags().StringP("output", "o", "",
		"Output file (single report) or directory (several reports); stdout when empty")

	// Batch rendering
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent renders for multiple specifications")

	// Archive flags
	cmd.Flags().BoolP("archive", "a", false,
		"Save the rendered artifact to the archive")
	cmd.Flags().String("archive-dir", "",
		"Archive directory (default: XDG data directory)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with statistic masking
	logger := log.NewMaskedLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runRender(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.SpecPaths, err = cmd.Flags().GetStringArray("spec")
	if err != nil {
		return nil, err
	}

	// With no --spec, fall back to report.yaml in the working or home
	// directory. Validate still rejects the config when neither exists.
	if len(cfg.SpecPaths) == 0 {
		if found := spec.FindFile(""); found != "" {
			cfg.SpecPaths = []string{found}
		}
	}

	cfg.HTMLReport, err = cmd.Flags().GetBool("html")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.TextReport, err = cmd.Flags().GetBool("text")
	if err != nil {
		return nil, err
	}

	cfg.ShowHidden, err = cmd.Flags().GetBool("show-hidden")
	if err != nil {
		return nil, err
	}

	cfg.Fragment, err = cmd.Flags().GetBool("fragment")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Archive, err = cmd.Flags().GetBool("archive")
	if err != nil {
		return nil, err
	}

	cfg.ArchiveDir, err = cmd.Flags().GetString("archive-dir")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional argument is the input CSV
	if len(args) > 0 {
		cfg.CSVPath = args[0]
	}

	return cfg, nil
}

// loadDataset reads a CSV file into a dataset along with its source
// metadata. The digest is taken over the raw bytes so archived renders
// can be traced back to the exact data cut.
func loadDataset(path string) (*model.Dataset, model.Source, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided data path is intentional
	if err != nil {
		return nil, model.Source{}, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	ds, err := model.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, model.Source{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return ds, model.Source{Path: path, Digest: archive.Digest(data)}, nil
}

// reportName derives the archive/report name from a specification path.
func reportName(specPath string) string {
	base := filepath.Base(specPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadJobs loads every specification and its input data into render jobs.
func loadJobs(cfg *config.Config) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(cfg.SpecPaths))
	for _, specPath := range cfg.SpecPaths {
		s, err := spec.LoadFile(specPath)
		if err != nil {
			return nil, err
		}

		// The specification's own data path wins over the CLI argument.
		dataPath := s.DataPath()
		if dataPath == "" {
			dataPath = cfg.CSVPath
		}
		if dataPath == "" {
			return nil, fmt.Errorf("specification %s: no input data (give a CSV argument or set data: in the spec)", specPath)
		}

		ds, source, err := loadDataset(dataPath)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, pipeline.Job{
			Name:    reportName(specPath),
			Spec:    s,
			Dataset: ds,
			Source:  source,
		})
	}
	return jobs, nil
}

// runRender executes the render.
func runRender(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	jobs, err := loadJobs(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting render",
		"reports", len(jobs),
		"format", cfg.OutputFormat(),
		"batchSize", cfg.BatchSize,
		"archive", cfg.Archive,
	)
	logger.Debug("build stages", "stages", strings.Join(pipeline.StageNames(), ", "))

	// Open the archive only when asked; the default path is stateless.
	var arc *archive.Archive
	if cfg.Archive {
		arc, err = archive.Open(cfg.ResolveArchiveDir(), archive.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer arc.Close()
		logger.Info("archive opened", "dir", cfg.ResolveArchiveDir())
	}

	if len(jobs) == 1 {
		return renderSingle(ctx, cfg, jobs[0], arc, logger)
	}
	return renderBatch(ctx, cfg, jobs, arc, logger)
}

// renderSingle renders one report.
func renderSingle(ctx context.Context, cfg *config.Config, job pipeline.Job, arc *archive.Archive, logger *slog.Logger) error {
	artifact, err := pipeline.Render(ctx, job.Dataset, job.Spec,
		pipeline.WithLogger(logger),
		pipeline.WithSource(job.Source),
	)
	if err != nil {
		return fmt.Errorf("report %s: %w", job.Name, err)
	}

	if err := writeArtifact(cfg, job.Name, artifact, false); err != nil {
		return err
	}

	return saveToArchive(ctx, arc, cfg, job.Name, artifact, logger)
}

// renderBatch renders several reports concurrently. Per-report failures
// are reported at the end without stopping sibling reports.
func renderBatch(ctx context.Context, cfg *config.Config, jobs []pipeline.Job, arc *archive.Archive, logger *slog.Logger) error {
	renderer := pipeline.NewBatchRenderer(
		pipeline.WithBatchLogger(logger),
		pipeline.WithBatchConcurrency(cfg.BatchSize),
	)

	results, err := renderer.RenderAll(ctx, jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Error("render failed", "report", res.Name, "error", res.Err)
			fmt.Fprintf(os.Stderr, "Render error for %s: %v\n", res.Name, res.Err)
			continue
		}

		if err := writeArtifact(cfg, res.Name, res.Artifact, true); err != nil {
			return err
		}
		if err := saveToArchive(ctx, arc, cfg, res.Name, res.Artifact, logger); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}

// formatExt maps an output format to its file extension.
func formatExt(format string) string {
	switch format {
	case config.FormatMarkdown:
		return "md"
	case config.FormatJSON:
		return "json"
	case config.FormatText:
		return "txt"
	default:
		return "html"
	}
}

// newWriter builds the artifact writer for the configured format.
func newWriter(cfg *config.Config, out io.Writer) render.Writer {
	switch cfg.OutputFormat() {
	case config.FormatMarkdown:
		return render.NewMarkdownWriter(out)
	case config.FormatJSON:
		return render.NewJSONWriter(out, render.WithPrettyPrint())
	case config.FormatText:
		return render.NewTextWriter(out, render.WithShowHidden(cfg.ShowHidden))
	default:
		var opts []render.HTMLWriterOption
		if cfg.Fragment {
			opts = append(opts, render.WithFragment())
		}
		return render.NewHTMLWriter(out, opts...)
	}
}

// writeArtifact writes one artifact to the configured destination.
// With no output path everything goes to stdout; a single report treats
// the path as a file, a batch treats it as a directory receiving one
// file per report.
func writeArtifact(cfg *config.Config, name string, artifact *model.Artifact, batch bool) error {
	if cfg.OutputFile == "" {
		_, err := newWriter(cfg, os.Stdout).Write(artifact)
		return err
	}

	path := cfg.OutputFile
	if batch {
		path = filepath.Join(cfg.OutputFile, name+"."+formatExt(cfg.OutputFormat()))
	}

	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Unreleased summary data: owner-only permissions.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := newWriter(cfg, f).Write(artifact); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// saveToArchive saves the artifact to the archive if enabled.
// If arc is nil, this function is a no-op.
func saveToArchive(ctx context.Context, arc *archive.Archive, cfg *config.Config, name string, artifact *model.Artifact, logger *slog.Logger) error {
	if arc == nil {
		return nil
	}

	id, err := arc.SaveRender(ctx, name, cfg.OutputFormat(), artifact)
	if err != nil {
		return fmt.Errorf("failed to archive render: %w", err)
	}

	logger.Info("render archived", "report", name, "renderID", id)
	return nil
}
