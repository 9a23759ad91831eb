// Package resolver performs the static pass over the AST: lexical
// depth annotation, structural rule checks and import path
// normalization.
package resolver

import (
	"fmt"

	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// ResolvingError reports a violated static rule, such as break outside
// a loop or an invalid import path.
type ResolvingError struct {
	Start   token.Position
	End     token.Position
	Message string
}

func (e *ResolvingError) Error() string {
	return report.Format("ResolvingError", e.Message, e.Start, e.End)
}

func errorAt(start, end token.Position, format string, args ...any) *ResolvingError {
	return &ResolvingError{
		Start:   start,
		End:     end,
		Message: fmt.Sprintf(format, args...),
	}
}
