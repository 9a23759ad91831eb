package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// funcType tracks the kind of function body being resolved.
type funcType uint8

const (
	funcNone funcType = iota
	funcFunction
	funcInitializer
	funcMethod
)

// classType tracks whether the resolver is inside a class body.
type classType uint8

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// Resolver computes, for every Variable/Assignment/This/Super node,
// the number of enclosing scopes to walk at runtime to find the
// binding (-1 meaning global), enforces structural rules, and rewrites
// import paths to absolute file paths.
//
// Errors are reported but resolving continues, so as many problems as
// possible are collected in one pass.
type Resolver struct {
	reporter *report.Reporter
	fs       FileSystem
	libPath  string // ;-separated search directories for imports

	// scopes is the stack of {name -> defined?} maps. A declared but
	// not yet defined slot marks `var x = x;` misuse.
	scopes []map[string]bool

	currentFunction funcType
	currentClass    classType
	loopLayer       int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFileSystem injects the file system used for import probing.
func WithFileSystem(fs FileSystem) Option {
	return func(r *Resolver) { r.fs = fs }
}

// WithLibPath overrides the LOXLIB search path.
func WithLibPath(libPath string) Option {
	return func(r *Resolver) { r.libPath = libPath }
}

// New creates a Resolver reporting to the given reporter.
// The import search path defaults to the LOXLIB environment variable.
func New(reporter *report.Reporter, opts ...Option) *Resolver {
	r := &Resolver{
		reporter: reporter,
		fs:       OSFileSystem{},
		libPath:  os.Getenv("LOXLIB"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the pass over the statements. Returns true when no new
// errors were reported.
func (r *Resolver) Resolve(stmts []ast.Stmt) bool {
	before := r.reporter.Errors()
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
	return r.reporter.Errors() == before
}

// ResolveBlock resolves statements wrapped in one extra scope, used
// when loading a module so depths line up with the module's context.
func (r *Resolver) ResolveBlock(stmts []ast.Stmt) bool {
	r.beginScope()
	ok := r.Resolve(stmts)
	r.endScope()
	return ok
}

func (r *Resolver) errorf(start, end token.Position, format string, args ...any) {
	r.reporter.Report(errorAt(start, end, format, args...))
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.VarDeclStmt:
		r.declare(s.Name.Lexeme)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name.Lexeme)

	case *ast.FuncDeclStmt:
		r.declare(s.Name.Lexeme)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s.Params, s.Body, funcFunction)

	case *ast.ClassDeclStmt:
		r.resolveClass(s)

	case *ast.BlockStmt:
		r.beginScope()
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()

	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.WhileStmt:
		r.loopLayer++
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
		r.loopLayer--

	case *ast.ForStmt:
		r.loopLayer++
		r.beginScope()
		if s.Init != nil {
			r.resolveStmt(s.Init)
		}
		if s.Cond != nil {
			r.resolveExpr(s.Cond)
		}
		if s.Post != nil {
			r.resolveExpr(s.Post)
		}
		r.resolveStmt(s.Body)
		r.endScope()
		r.loopLayer--

	case *ast.BreakStmt:
		if r.loopLayer == 0 {
			r.errorf(s.Pos(), s.End(), "'break' must be inside a loop")
		}

	case *ast.ContinueStmt:
		if r.loopLayer == 0 {
			r.errorf(s.Pos(), s.End(), "'continue' must be inside a loop")
		}

	case *ast.ReturnStmt:
		if r.currentFunction == funcNone {
			r.errorf(s.Pos(), s.End(), "'return' must be inside a function")
			return
		}
		if s.Value != nil {
			if r.currentFunction == funcInitializer {
				r.errorf(s.Pos(), s.End(), "Can't 'return' non-nil value from an initializer")
				return
			}
			r.resolveExpr(s.Value)
		}

	case *ast.ImportStmt:
		r.resolveImport(s)

	case *ast.PackStmt:
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}

	case *ast.ErrorStmt:
		// already reported by the parser
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDeclStmt) {
	enclosing := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosing }()

	r.declare(s.Name.Lexeme)
	r.define(s.Name.Lexeme)

	if s.Super != nil {
		r.currentClass = classSubclass
		if s.Super.Name.Lexeme == s.Name.Lexeme {
			r.errorf(s.Pos(), s.Super.End(), "A Class can't derived from itself")
			return
		}
		r.resolveExpr(s.Super)
	}

	r.beginScope()
	defer r.endScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	if s.Super != nil {
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	for _, method := range s.Methods {
		switch method.Name.Lexeme {
		case "init":
			r.resolveFunction(method.Params, method.Body, funcInitializer)
		case "__del__":
			if len(method.Params) != 0 {
				first, last := method.Params[0], method.Params[len(method.Params)-1]
				r.errorf(first.Start, last.End, "Destructor shouldn't take arguments")
				return
			}
			r.resolveFunction(method.Params, method.Body, funcMethod)
		default:
			r.resolveFunction(method.Params, method.Body, funcMethod)
		}
	}
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Stmt, kind funcType) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range params {
		r.declare(param.Lexeme)
		r.define(param.Lexeme)
	}
	for _, stmt := range body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.currentFunction = enclosing
}

// resolveImport normalizes the import path and declares the imported
// symbols in the current scope. A relative path without an extension
// gets ".lox" appended, then is probed against the current working
// directory and each LOXLIB directory in order; the first existing
// path rewrites the AST node's path literal.
func (r *Resolver) resolveImport(s *ast.ImportStmt) {
	path := s.Path.Lexeme
	if filepath.Ext(path) == "" {
		path += ".lox"
	}

	existed := false
	if filepath.IsAbs(path) {
		existed = r.fs.Exists(path)
	} else {
		if abs, err := r.fs.Abs(path); err == nil && r.fs.Exists(abs) {
			path = abs
			existed = true
		}
		if !existed {
			for _, folder := range strings.Split(r.libPath, ";") {
				if folder == "" {
					continue
				}
				candidate := filepath.Join(folder, path)
				if r.fs.Exists(candidate) {
					path = candidate
					existed = true
					break
				}
			}
		}
	}

	if !existed {
		r.errorf(s.Path.Start, s.Path.End, "Invalid import path")
		return
	}

	s.Path.Lexeme = path

	for _, sym := range s.Symbols {
		name := sym.Name.Lexeme
		if sym.Alias != nil {
			name = sym.Alias.Lexeme
		}
		r.declare(name)
		r.define(name)
	}
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.Expr) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *ast.LiteralExpr:
		// literals need no resolution

	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			nearest := r.scopes[len(r.scopes)-1]
			if defined, ok := nearest[e.Name.Lexeme]; ok && !defined {
				r.errorf(e.Pos(), e.End(), "Can't init a variable with it self")
				return
			}
		}
		e.Depth = r.resolveLocal(e.Name.Lexeme)

	case *ast.ListExpr:
		for _, item := range e.Items {
			r.resolveExpr(item)
		}

	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.UnaryExpr:
		r.resolveExpr(e.Expr)

	case *ast.TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case *ast.OrExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.AndExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.AssignmentExpr:
		r.resolveExpr(e.Value)
		e.Depth = r.resolveLocal(e.Name.Lexeme)

	case *ast.IncrementExpr:
		r.resolveExpr(e.Holder)

	case *ast.DecrementExpr:
		r.resolveExpr(e.Holder)

	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.RetrieveExpr:
		// member access is a runtime operation; only the holder and
		// index resolve statically
		r.resolveExpr(e.Holder)
		if e.Index != nil {
			r.resolveExpr(e.Index)
		}

	case *ast.SetExpr:
		r.resolveExpr(e.Holder)
		if e.Index != nil {
			r.resolveExpr(e.Index)
		}
		r.resolveExpr(e.Value)

	case *ast.LambdaExpr:
		r.resolveFunction(e.Params, e.Body, funcFunction)

	case *ast.ThisExpr:
		if r.currentClass == classNone {
			r.errorf(e.Pos(), e.End(), `"this" can only be used inside a class method`)
			return
		}
		e.Depth = r.resolveLocal("this")

	case *ast.SuperExpr:
		if r.currentClass != classSubclass {
			r.errorf(e.Pos(), e.End(), "Cannot use 'super' outside of a subclass")
			return
		}
		e.Depth = r.resolveLocal("super")

	case *ast.PackExpr:
		for _, inner := range e.Exprs {
			r.resolveExpr(inner)
		}
	}
}

// -----------------------------------------------------------------------------
// Scope handling
// -----------------------------------------------------------------------------

// resolveLocal returns how many scopes up the name is bound, or -1
// when the name is global (globals are not tracked here).
func (r *Resolver) resolveLocal(name string) int {
	for dist := len(r.scopes) - 1; dist >= 0; dist-- {
		if _, ok := r.scopes[dist][name]; ok {
			return len(r.scopes) - dist - 1
		}
	}
	return -1
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name string) {
	if len(r.scopes) == 0 {
		return
	}
	// Redeclaration is allowed here; it is rarely intended but does
	// not break resolution.
	r.scopes[len(r.scopes)-1][name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}
