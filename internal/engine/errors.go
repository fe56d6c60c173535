package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrUnknownCommand indicates a command identifier that is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand indicates a command identifier that is already registered.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrOffsetOutOfRange indicates a position outside the document.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
