// Package parser provides a recursive descent parser for the Lox dialect.
package parser

import (
	"fmt"

	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// ParsingError represents a syntax error encountered during parsing.
// It implements the error interface and includes the source span.
type ParsingError struct {
	Start   token.Position
	End     token.Position
	Message string
}

// Error returns the formatted error with its location header and caret span.
func (e *ParsingError) Error() string {
	return report.Format("ParsingError", e.Message, e.Start, e.End)
}

// ErrorList is a list of parse errors.
type ErrorList []*ParsingError

// Error returns a combined error message for all errors.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *ParsingError) {
	*el = append(*el, err)
}

// Err returns an error if there are any errors, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// errorAt creates a ParsingError spanning the given positions.
func errorAt(start, end token.Position, format string, args ...any) *ParsingError {
	return &ParsingError{
		Start:   start,
		End:     end,
		Message: fmt.Sprintf(format, args...),
	}
}
