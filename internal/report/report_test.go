package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Morphlng/cploxplox/internal/token"
)

func TestCountReadsAndClears(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})
	r.Report(errors.New("one"))
	r.Report(errors.New("two"))

	if got := r.Errors(); got != 2 {
		t.Errorf("Errors() = %d, want 2", got)
	}
	if got := r.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := r.Count(); got != 0 {
		t.Errorf("Count() after clear = %d, want 0", got)
	}
}

func TestReset(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})
	r.Report(errors.New("x"))
	r.Reset()
	if got := r.Errors(); got != 0 {
		t.Errorf("Errors() after Reset = %d, want 0", got)
	}
}

func TestReportWritesToOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.Report(errors.New("something broke"))
	if !strings.Contains(out.String(), "something broke") {
		t.Errorf("output missing message: %q", out.String())
	}
}

func TestFormatCaretSpan(t *testing.T) {
	src := "var x = 1;\nprint(ghost);\n"
	start := token.Position{Filename: "main.lox", Content: src, Offset: 17, Line: 2, Column: 7}
	end := token.Position{Filename: "main.lox", Content: src, Offset: 22, Line: 2, Column: 12}

	got := Format("RuntimeError", "Undefined variable ghost", start, end)

	if !strings.Contains(got, "RuntimeError: Undefined variable ghost") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "File main.lox, line 2") {
		t.Errorf("missing location line:\n%s", got)
	}
	if !strings.Contains(got, "print(ghost);") {
		t.Errorf("missing source line:\n%s", got)
	}
	if !strings.Contains(got, "^^^^^") {
		t.Errorf("missing caret span:\n%s", got)
	}
}
