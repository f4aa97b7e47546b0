package ngon

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedVertex is returned in strict mode when a "v" line has a
	// missing or non-numeric coordinate or color component.
	ErrMalformedVertex = errors.New("malformed vertex")

	// ErrInvalidFaceIndex is returned when a face index cannot be parsed or
	// resolves outside the mesh's vertex range.
	ErrInvalidFaceIndex = errors.New("invalid face index")
)

// ParseError records where in the source a parse failed.
type ParseError struct {
	Line    int
	Keyword string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d (%s): %v", e.Line, e.Keyword, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
