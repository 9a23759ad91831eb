package lexer

import (
	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// IllegalCharError reports a byte the lexer cannot tokenize.
type IllegalCharError struct {
	Start   token.Position
	End     token.Position
	Message string
}

func (e *IllegalCharError) Error() string {
	return report.Format("IllegalCharError", e.Message, e.Start, e.End)
}

// ExpectCharError reports a character the lexer expected but did not find,
// such as the closing quote of a string.
type ExpectCharError struct {
	Start   token.Position
	End     token.Position
	Message string
}

func (e *ExpectCharError) Error() string {
	return report.Format("ExpectCharError", "Expected "+e.Message, e.Start, e.End)
}
