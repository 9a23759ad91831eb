package resolver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/lexer"
	"github.com/Morphlng/cploxplox/internal/parser"
	"github.com/Morphlng/cploxplox/internal/report"
)

// fakeFS is an in-memory FileSystem with a fixed working directory.
type fakeFS struct {
	files map[string]bool
	cwd   string
}

func (f fakeFS) Exists(path string) bool {
	return f.files[path]
}

func (f fakeFS) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(f.cwd, path), nil
}

func parseSrc(t *testing.T, src string) []ast.Stmt {
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
	return stmts
}

func resolveSrc(t *testing.T, src string, opts ...Option) ([]ast.Stmt, bool, string) {
	t.Helper()
	var out bytes.Buffer
	reporter := report.NewReporter(&out)
	stmts := parseSrc(t, src)
	ok := New(reporter, opts...).Resolve(stmts)
	return stmts, ok, out.String()
}

func TestStructuralRules(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"break outside loop", "break;", "'break' must be inside a loop"},
		{"continue outside loop", "continue;", "'continue' must be inside a loop"},
		{"return outside function", "return 1;", "'return' must be inside a function"},
		{"return value in init", "class C { init() { return 1; } }", "Can't 'return' non-nil value from an initializer"},
		{"bare return in init ok", "class C { init() { return; } }", ""},
		{"this outside class", "this;", `"this" can only be used inside a class method`},
		{"super outside subclass", "class C { m() { super.m(); } }", "Cannot use 'super' outside of a subclass"},
		{"self inheritance", "class C > C { }", "A Class can't derived from itself"},
		{"destructor with params", "class C { __del__(x) { } }", "Destructor shouldn't take arguments"},
		{"self init", "{ var x = x; }", "Can't init a variable with it self"},
		{"break inside while ok", "while (true) { break; }", ""},
		{"continue inside for ok", "for (;;) { continue; }", ""},
		{"return inside lambda ok", "var f = func() { return 1; };", ""},
		{"this in method ok", "class C { m() { return this; } }", ""},
		{"super in subclass ok", "class A { m() { } } class B > A { m() { super.m(); } }", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, out := resolveSrc(t, tt.src)
			if tt.wantErr == "" {
				if !ok {
					t.Fatalf("expected clean resolve, got errors:\n%s", out)
				}
				return
			}
			if ok {
				t.Fatal("expected a resolving error")
			}
			if !strings.Contains(out, tt.wantErr) {
				t.Errorf("expected error containing %q, got:\n%s", tt.wantErr, out)
			}
		})
	}
}

// Closure depth: the assignment inside inc refers to the binding one
// scope up, in make's frame.
func TestClosureDepth(t *testing.T) {
	src := `func make() { var i = 0; func inc() { i = i + 1; return i; } return inc; }`
	stmts, ok, out := resolveSrc(t, src)
	if !ok {
		t.Fatalf("resolve failed:\n%s", out)
	}

	makeFn := stmts[0].(*ast.FuncDeclStmt)
	incFn := makeFn.Body[1].(*ast.FuncDeclStmt)
	assign := incFn.Body[0].(*ast.ExpressionStmt).Expr.(*ast.AssignmentExpr)
	if assign.Depth != 1 {
		t.Errorf("assignment depth: expected 1, got %d", assign.Depth)
	}

	ret := incFn.Body[1].(*ast.ReturnStmt).Value.(*ast.VariableExpr)
	if ret.Depth != 1 {
		t.Errorf("variable depth: expected 1, got %d", ret.Depth)
	}

	// `return inc;` refers to make's own frame
	retInc := makeFn.Body[2].(*ast.ReturnStmt).Value.(*ast.VariableExpr)
	if retInc.Depth != 0 {
		t.Errorf("inc depth: expected 0, got %d", retInc.Depth)
	}
}

func TestGlobalDepth(t *testing.T) {
	stmts, ok, out := resolveSrc(t, "var x = 1; x;")
	if !ok {
		t.Fatalf("resolve failed:\n%s", out)
	}
	expr := stmts[1].(*ast.ExpressionStmt).Expr.(*ast.VariableExpr)
	if expr.Depth != -1 {
		t.Errorf("global reference depth: expected -1, got %d", expr.Depth)
	}
}

func TestThisDepthInMethod(t *testing.T) {
	src := "class C { m() { return this; } }"
	stmts, ok, out := resolveSrc(t, src)
	if !ok {
		t.Fatalf("resolve failed:\n%s", out)
	}
	class := stmts[0].(*ast.ClassDeclStmt)
	this := class.Methods[0].Body[0].(*ast.ReturnStmt).Value.(*ast.ThisExpr)
	if this.Depth != 1 {
		t.Errorf("this depth: expected 1, got %d", this.Depth)
	}
}

func TestImportPathRewrite(t *testing.T) {
	cwd, _ := filepath.Abs(".")

	tests := []struct {
		name     string
		src      string
		files    map[string]bool
		libPath  string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "relative against cwd",
			src:      `import { a } from "lib.lox";`,
			files:    map[string]bool{filepath.Join(cwd, "lib.lox"): true},
			wantPath: filepath.Join(cwd, "lib.lox"),
		},
		{
			name:     "extension appended",
			src:      `import { a } from "lib";`,
			files:    map[string]bool{filepath.Join(cwd, "lib.lox"): true},
			wantPath: filepath.Join(cwd, "lib.lox"),
		},
		{
			name:     "loxlib search",
			src:      `import { a } from "util";`,
			files:    map[string]bool{filepath.Join("/opt/loxlib", "util.lox"): true},
			libPath:  "/opt/loxlib",
			wantPath: filepath.Join("/opt/loxlib", "util.lox"),
		},
		{
			name:     "first loxlib entry wins",
			src:      `import { a } from "util";`,
			files:    map[string]bool{filepath.Join("/a", "util.lox"): true, filepath.Join("/b", "util.lox"): true},
			libPath:  "/a;/b",
			wantPath: filepath.Join("/a", "util.lox"),
		},
		{
			name:     "cwd takes priority over loxlib",
			src:      `import { a } from "util";`,
			files:    map[string]bool{filepath.Join(cwd, "util.lox"): true, filepath.Join("/a", "util.lox"): true},
			libPath:  "/a",
			wantPath: filepath.Join(cwd, "util.lox"),
		},
		{
			name:    "missing file",
			src:     `import { a } from "nope";`,
			files:   map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := fakeFS{files: tt.files, cwd: cwd}
			stmts, ok, out := resolveSrc(t, tt.src, WithFileSystem(fs), WithLibPath(tt.libPath))

			if tt.wantErr {
				if ok {
					t.Fatal("expected a resolving error for missing import")
				}
				if !strings.Contains(out, "Invalid import path") {
					t.Errorf("unexpected error output:\n%s", out)
				}
				return
			}

			if !ok {
				t.Fatalf("resolve failed:\n%s", out)
			}
			imp := stmts[0].(*ast.ImportStmt)
			if diff := cmp.Diff(tt.wantPath, imp.Path.Lexeme); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
