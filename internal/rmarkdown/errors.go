package rmarkdown

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNesting is returned when sentinel tags overlap or are not closed.
	ErrMalformedNesting = errors.New("malformed nesting")
	// ErrMissingSourceTag is returned when an output appears before the source of a chunk.
	ErrMissingSourceTag = errors.New("missing source tag")
	// ErrUnsupportedMimeType is returned when an output cannot be written without losing data.
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	// ErrMetadataConflict is returned in strict mode when merged cells define the same key.
	ErrMetadataConflict = errors.New("conflicting metadata")
	// ErrInvalidSideChannel is returned when the base64 JSON of a tag cannot be decoded.
	ErrInvalidSideChannel = errors.New("invalid side channel")
	// ErrNoEmbeddedSource is returned when a rendered file does not embed its source file.
	ErrNoEmbeddedSource = errors.New("no embedded source")
)

// TagError localizes an error in a rendered file.
type TagError struct {
	Tag    string // ex: "chunk", "output"
	Cell   int    // index of the outer block in the rendered file
	Reason string
	Err    error
}

func (e *TagError) Error() string {
	msg := fmt.Sprintf("block %d: tag %q: %v", e.Cell, e.Tag, e.Err)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// CellError localizes an error on a cell of a source file or of a document.
type CellError struct {
	Cell   int
	Reason string
	Err    error
}

func (e *CellError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cell %d: %v", e.Cell, e.Err)
	}
	return fmt.Sprintf("cell %d: %s: %v", e.Cell, e.Reason, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
