// Package log provides masked logging functionality built on top of the
// standard slog package.
//
// Clinical summary data is unpublished trial information until the
// sponsor releases it. Log lines that carry cell values, displays, or
// p-values must never leave a render host in shareable form, so the
// MaskHandler replaces statistic-bearing attribute values with a mask
// before they reach the underlying handler.
//
// Even in verbose mode, statistic values are masked: verbosity controls
// how much is logged, never what is disclosed.
//
// # Usage
//
//	logger := log.NewMaskedLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("cell formatted",
//	    "column", "placebo_n",
//	    "value", 86.0,  // Will be masked to "***"
//	)
//
//	slog.SetDefault(logger)
package log
