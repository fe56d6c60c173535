package markup

import "errors"

var (
	// ErrMalformed indicates markup that cannot be read as HTML text.
	ErrMalformed = errors.New("markup: malformed input")

	// ErrEmptyDocument indicates a document with no content to serialize.
	ErrEmptyDocument = errors.New("markup: empty document")
)
