package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSpec is returned when no report specification is given.
	// This error occurs when no --spec flag provides a specification file.
	ErrNoSpec = errors.New("no report specification: provide one or more --spec files")

	// ErrConflictingFormats is returned when more than one output format
	// flag is specified. Only one output format can be used at a time.
	ErrConflictingFormats = errors.New("conflicting output formats: --html, --markdown, --json, and --text are mutually exclusive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent renders, effectively
	// stopping the rendering process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")
)
