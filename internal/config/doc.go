// Package config provides configuration structures and utilities for clintab.
// It defines the CLI-level options for rendering reports, output format
// selection, batch concurrency, and the optional render archive.
package config
