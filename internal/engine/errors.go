package engine

import (
	"errors"
	"fmt"

	"github.com/BaranTeyin1/Aegiscan-cli/internal/syntax"
)

// ParseError reports a file that could not be parsed. It is fatal for that file only.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Err      error
}

func newParseError(filename string, err error) *ParseError {
	pe := &ParseError{Filename: filename, Err: err}
	var serr *syntax.SyntaxError
	if errors.As(err, &serr) {
		pe.Line, pe.Column = serr.Line, serr.Column
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: parse error: %v", e.Filename, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: parse error: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
