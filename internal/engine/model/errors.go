package model

import (
	"errors"
	"fmt"
)

// Errors returned by schema and node construction.
var (
	// ErrUnknownNodeType indicates a node type name not present in the schema.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownMarkType indicates a mark type name not present in the schema.
	ErrUnknownMarkType = errors.New("unknown mark type")

	// ErrInvalidContent indicates content that does not match a node type's
	// content expression.
	ErrInvalidContent = errors.New("invalid content")

	// ErrMissingAttr indicates a required attribute was not supplied.
	ErrMissingAttr = errors.New("missing required attribute")

	// ErrInvalidSchema indicates a malformed schema specification.
	ErrInvalidSchema = errors.New("invalid schema")
)

// ReplaceError is returned when a replace cannot produce a valid document.
type ReplaceError struct {
	Message string
}

func (e *ReplaceError) Error() string {
	return "replace: " + e.Message
}

func replaceErrorf(format string, args ...any) *ReplaceError {
	return &ReplaceError{Message: fmt.Sprintf(format, args...)}
}

// RangeError is the panic value used when a position lies outside the
// document it is resolved or mapped against.
type RangeError struct {
	Message string
}

func (e *RangeError) Error() string {
	return "position out of range: " + e.Message
}

// PanicRange panics with a *RangeError. Out-of-range positions are never
// clamped.
func PanicRange(format string, args ...any) {
	panic(&RangeError{Message: fmt.Sprintf(format, args...)})
}
