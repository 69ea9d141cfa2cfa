package archive

import "errors"

var (
	// ErrRenderNotFound is returned when a render requested by ID does
	// not exist in the archive.
	ErrRenderNotFound = errors.New("render not found in archive")

	// ErrNotEnoughRenders is returned when a diff needs two archived
	// renders of a report but fewer exist.
	ErrNotEnoughRenders = errors.New("report needs at least two archived renders to diff")
)
