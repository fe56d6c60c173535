package state

import "errors"

// Errors returned by state construction.
var (
	// ErrNoDocument indicates neither a document nor a schema was given.
	ErrNoDocument = errors.New("no document or schema")

	// ErrDuplicatePlugin indicates two plugins share a key.
	ErrDuplicatePlugin = errors.New("duplicate plugin key")
)
