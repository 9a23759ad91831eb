package object

import (
	"fmt"

	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// RuntimeError represents an unresolvable situation during evaluation.
// Operator helpers create it without positions; the interpreter fills
// in the span of the expression being evaluated before propagating.
type RuntimeError struct {
	Start   token.Position
	End     token.Position
	Message string
}

func (e *RuntimeError) Error() string {
	if !e.Start.IsValid() {
		return "RuntimeError: " + e.Message
	}
	return report.Format("RuntimeError", e.Message, e.Start, e.End)
}

// runtimeErrorf creates a position-less RuntimeError.
func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
