package transform

import "errors"

// Errors returned by Transform operations.
var (
	// ErrStepFailed indicates a step could not be applied to the document.
	ErrStepFailed = errors.New("step failed")

	// ErrMappingMismatch indicates two mappings that do not chain were
	// composed.
	ErrMappingMismatch = errors.New("mappings do not chain")
)
