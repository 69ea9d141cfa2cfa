package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent renders balances throughput with
	// resource usage when several report specifications are rendered in
	// one invocation. Rendering is CPU-light, so a small limit exists
	// mainly to keep memory bounded when many large CSVs are in flight.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "clintab"
)

// Output format names as stored in the archive and used for file
// extensions.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatText     = "text"
)

// Config holds all configuration options for clintab.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., RenderConfig, ArchiveConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// CSVPath is the input data file. A specification carrying its own
	// data path override renders against that file instead.
	CSVPath string

	// SpecPaths lists the report specification YAML files to render.
	// One path renders a single report; several render as a batch.
	SpecPaths []string

	// HTMLReport selects standalone HTML output. This is the default
	// when no format flag is given.
	HTMLReport bool

	// MarkdownReport selects GitHub-flavored markdown output.
	// Mutually exclusive with the other format flags.
	MarkdownReport bool

	// JSONReport selects JSON artifact output.
	// Mutually exclusive with the other format flags.
	JSONReport bool

	// TextReport selects human-readable terminal output.
	// Mutually exclusive with the other format flags.
	TextReport bool

	// OutputFile is the destination path. With one specification it is
	// the output file; with several it is a directory receiving one
	// file per report. When empty, output goes to stdout.
	OutputFile string

	// BatchSize is the number of concurrent renders when several
	// specifications are given.
	BatchSize int

	// Archive enables saving rendered artifacts to the archive for
	// history and run-to-run comparison. Off by default: the standard
	// rendering path is stateless.
	Archive bool

	// ArchiveDir is the archive database directory.
	// Defaults to the XDG data directory when empty.
	ArchiveDir string

	// ShowHidden includes hidden columns in text output, which is
	// useful when checking what a merge or hide selector did.
	ShowHidden bool

	// Fragment emits only the table element in HTML output, for
	// embedding rendered tables in an existing report shell.
	Fragment bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because some defaults are non-zero (e.g., batch size).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for clintab.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/clintab
// On macOS: ~/Library/Application Support/clintab
// On Windows: %LOCALAPPDATA%\clintab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for clintab.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/clintab
// On macOS: ~/Library/Application Support/clintab
// On Windows: %APPDATA%\clintab
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputFormat returns the selected output format name, defaulting to
// HTML when no format flag was given.
func (c *Config) OutputFormat() string {
	switch {
	case c.MarkdownReport:
		return FormatMarkdown
	case c.JSONReport:
		return FormatJSON
	case c.TextReport:
		return FormatText
	default:
		return FormatHTML
	}
}

// ResolveArchiveDir returns the archive directory, falling back to the
// XDG data directory.
func (c *Config) ResolveArchiveDir() string {
	if c.ArchiveDir != "" {
		return c.ArchiveDir
	}
	return XDGDataDir()
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any rendering begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// At least one report specification is required
	if len(c.SpecPaths) == 0 {
		return ErrNoSpec
	}

	// Format flags are mutually exclusive
	formats := 0
	for _, set := range []bool{c.HTMLReport, c.MarkdownReport, c.JSONReport, c.TextReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingFormats
	}

	// BatchSize must be positive; zero would mean no rendering
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	return nil
}
