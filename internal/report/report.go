// Package report collects and formats pipeline errors.
//
// All stages share one Reporter so the driver can decide whether to
// proceed to the next stage: lexer and parser errors are reported as
// they occur, resolving continues past errors to collect as many
// problems as possible, and runtime errors abort the current entry
// point. Count reads and clears the tally, matching the original's
// check-then-reset usage between stages.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Morphlng/cploxplox/internal/token"
)

// Reporter holds an error count and the destination for error output.
type Reporter struct {
	count int
	out   io.Writer
}

// NewReporter creates a Reporter writing to out (os.Stderr if nil).
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{out: out}
}

// Report prints the error and increments the count.
func (r *Reporter) Report(err error) {
	fmt.Fprintln(r.out, err.Error())
	r.count++
}

// Reset clears the error count.
func (r *Reporter) Reset() {
	r.count = 0
}

// Count returns the current error count and clears it.
func (r *Reporter) Count() int {
	n := r.count
	r.count = 0
	return n
}

// Errors returns the current error count without clearing it.
func (r *Reporter) Errors() int {
	return r.count
}

// Format renders an error with its location header and the offending
// source line(s) underlined with carets.
//
//	RuntimeError: Undefined variable x
//	File main.lox, line 3
//
//	print(x);
//	      ^
func Format(name, details string, start, end token.Position) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", name, details)
	fmt.Fprintf(&sb, "File %s, line %d\n\n", start.Filename, start.Line)
	sb.WriteString(stringWithArrows(start.Content, start, end))
	return sb.String()
}

// stringWithArrows extracts the source lines covered by [start, end] and
// adds a caret line under each, spanning the error region.
func stringWithArrows(content string, start, end token.Position) string {
	var sb strings.Builder

	idxStart := strings.LastIndexByte(content[:min(start.Offset, len(content))], '\n') + 1
	lineCount := end.Line - start.Line + 1

	for i := 0; i < lineCount; i++ {
		idxEnd := strings.IndexByte(content[idxStart:], '\n')
		if idxEnd < 0 {
			idxEnd = len(content)
		} else {
			idxEnd += idxStart
		}
		line := content[idxStart:idxEnd]

		colStart := 1
		if i == 0 {
			colStart = start.Column
		}
		colEnd := len(line) + 1
		if i == lineCount-1 {
			colEnd = end.Column
		}
		if colEnd <= colStart {
			colEnd = colStart + 1
		}

		// Tabs would misalign the caret line; render them as spaces.
		sb.WriteString(strings.ReplaceAll(line, "\t", " "))
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", colStart-1))
		sb.WriteString(strings.Repeat("^", colEnd-colStart))
		if i != lineCount-1 {
			sb.WriteByte('\n')
		}

		idxStart = idxEnd + 1
		if idxStart > len(content) {
			break
		}
	}

	return sb.String()
}
