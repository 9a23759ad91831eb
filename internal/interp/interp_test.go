package interp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/lexer"
	"github.com/Morphlng/cploxplox/internal/object"
	"github.com/Morphlng/cploxplox/internal/parser"
	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/resolver"
)

// pipeline runs the static stages and returns the resolved statements.
func pipeline(t *testing.T, src string) []ast.Stmt {
	t.Helper()

	tokens, err := lexer.New("test.lox", src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	p := parser.New(tokens)
	stmts := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}

	reporter := report.NewReporter(&bytes.Buffer{})
	if !resolver.New(reporter).Resolve(stmts) {
		t.Fatal("resolve failed")
	}
	return stmts
}

// exec interprets src and returns the interpreter and captured stdout.
func exec(t *testing.T, src string) (*Interpreter, string, error) {
	t.Helper()
	var out bytes.Buffer
	i := New(Config{Stdout: &out, Reporter: report.NewReporter(&bytes.Buffer{})})
	err := i.Interpret(pipeline(t, src))
	return i, out.String(), err
}

func TestMainName(t *testing.T) {
	i, _, err := exec(t, "var x = 1;")
	if err != nil {
		t.Fatal(err)
	}
	name := i.global.Get("__name__")
	if !name.IsString() || name.Str() != "__main__" {
		t.Errorf("__name__ = %s, want __main__", name)
	}
}

func TestPresetEnvironment(t *testing.T) {
	i := New(Config{Stdout: &bytes.Buffer{}, Reporter: report.NewReporter(&bytes.Buffer{})})

	for _, name := range []string{"clock", "str", "typeof", "print", "getc", "chr", "exit", "getattr", "loadlib", "String", "List", "Dict", "Math"} {
		if ref := i.preset.Get(name); ref == object.NilRef() {
			t.Errorf("preset is missing %s", name)
		}
	}
}

func TestReturnCellCleared(t *testing.T) {
	i, out, err := exec(t, `
func f(){ return 1; }
f();
print("after");
`)
	if err != nil {
		t.Fatal(err)
	}
	if i.returns != nil {
		t.Error("pending return cell should be empty after the call")
	}
	if out != "after\n" {
		t.Errorf("statements after the call should still run, got %q", out)
	}
}

func TestExitSignalPropagates(t *testing.T) {
	_, _, err := exec(t, "exit(7);")
	var exit *ExitSignal
	if !errors.As(err, &exit) {
		t.Fatalf("expected ExitSignal, got %v", err)
	}
	if exit.Code != 7 {
		t.Errorf("exit code = %d, want 7", exit.Code)
	}
}

func TestModuleCachePopulated(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "m.lox")
	if err := os.WriteFile(lib, []byte("var v = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	i, _, err := exec(t, `import { v } from "`+lib+`"; print(v);`)
	if err != nil {
		t.Fatal(err)
	}

	module, ok := i.modules[lib]
	if !ok {
		t.Fatal("module cache should hold the imported path")
	}
	if _, ok := module.Get("v"); !ok {
		t.Error("module should export v")
	}
	if _, ok := module.Get("__name__"); ok {
		t.Error("__name__ must not be exported")
	}
}

func TestUndefinedVariableHitsSentinel(t *testing.T) {
	_, _, err := exec(t, "ghost;")
	var re *object.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
}

// Missing optional arguments fill from the stored defaults,
// tail-aligned: with one argument given, the last two defaults apply.
func TestDefaultsTailAligned(t *testing.T) {
	_, out, err := exec(t, `
func f(a, b = "B", c = "C"){ return a + b + c; }
print(f("x"));
print(f("x", "y"));
`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "xBC\nxyC\n" {
		t.Errorf("got %q", out)
	}
}

func TestBreakDoesNotEscapeLoop(t *testing.T) {
	_, out, err := exec(t, `
while (true) { break; }
print("done");
`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "done\n" {
		t.Errorf("got %q", out)
	}
}
