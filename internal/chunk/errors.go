package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrChunkHeader is returned for every malformed chunk header.
	ErrChunkHeader = errors.New("invalid chunk header")
	// ErrUnknownLiteral is returned when an unquoted option value is neither a known literal nor a number.
	ErrUnknownLiteral = errors.New("unknown literal")
)

// HeaderError reports a malformed chunk header.
// It matches ErrChunkHeader and the more specific cause if any.
type HeaderError struct {
	Header string
	Reason string
	Err    error // ErrChunkHeader or ErrUnknownLiteral
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrChunkHeader, e.Header, e.Reason)
}

func (e *HeaderError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrChunkHeader {
		return []error{ErrChunkHeader}
	}
	return []error{ErrChunkHeader, e.Err}
}

func headerErrorf(header string, format string, args ...any) *HeaderError {
	return &HeaderError{
		Header: header,
		Reason: fmt.Sprintf(format, args...),
		Err:    ErrChunkHeader,
	}
}
