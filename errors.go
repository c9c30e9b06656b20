package xmledit

import "errors"

// Error definitions for the editor
var (
	// ErrMaxDepthExceeded is returned when XML nesting exceeds the maximum allowed depth
	ErrMaxDepthExceeded = errors.New("maximum XML nesting depth exceeded")

	// ErrMaxBufferSizeExceeded is returned when the internal buffer exceeds the maximum allowed size
	ErrMaxBufferSizeExceeded = errors.New("maximum buffer size exceeded")

	// ErrInvalidConfiguration is returned when editor configuration is invalid
	ErrInvalidConfiguration = errors.New("invalid editor configuration")

	// ErrInvalidSelector is returned when a selector contains a token that is not a valid element name
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrInvalidElementName is returned when a subtree contains an invalid element or attribute name
	ErrInvalidElementName = errors.New("invalid element name")

	// ErrMismatchedClosingTag is returned when a closing tag does not match the innermost open element
	ErrMismatchedClosingTag = errors.New("mismatched closing tag")

	// ErrUnexpectedClosingTag is returned when a closing tag appears with no element open
	ErrUnexpectedClosingTag = errors.New("unexpected closing tag")

	// ErrEditorClosed is returned when data is appended after a terminal error stopped the editor
	ErrEditorClosed = errors.New("editor is closed")
)
