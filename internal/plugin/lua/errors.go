package lua

import "errors"

// Errors for Lua runtime operations.
var (
	// ErrStateClosed is returned when operating on a closed runtime.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnknownMacro is returned when running a macro that was never defined.
	ErrUnknownMacro = errors.New("unknown macro")

	// ErrDuplicateMacro is returned when a script defines a macro twice.
	ErrDuplicateMacro = errors.New("macro already defined")
)
