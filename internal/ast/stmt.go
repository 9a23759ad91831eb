package ast

import "github.com/Morphlng/cploxplox/internal/token"

// ExpressionStmt represents an expression used as a statement.
type ExpressionStmt struct {
	BaseStmt
	Expr Expr
}

// VarDeclStmt represents a single variable declaration.
// A comma-packed declaration (var a = 1, b = 2;) parses to a PackStmt
// of VarDeclStmts.
type VarDeclStmt struct {
	BaseStmt
	Name token.Token
	Init Expr // nil when declared without initializer
}

// FuncDeclStmt represents a named function declaration.
// Also used for class methods.
type FuncDeclStmt struct {
	BaseStmt
	Name     token.Token
	Params   []token.Token
	Defaults []Expr // default values for the trailing optional parameters
	Body     []Stmt
}

// ClassDeclStmt represents a class declaration, with optional single
// inheritance: class C > B { ... }
type ClassDeclStmt struct {
	BaseStmt
	Name    token.Token
	Super   *VariableExpr // nil when the class has no superclass
	Methods []*FuncDeclStmt
}

// BlockStmt represents a braced block of statements.
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// IfStmt represents an if or if-else statement.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else branch
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

// ForStmt represents a C-style three-clause for loop.
// Any clause may be nil.
type ForStmt struct {
	BaseStmt
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// BreakStmt represents a break statement.
type BreakStmt struct {
	BaseStmt
	Keyword token.Token
}

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	BaseStmt
	Keyword token.Token
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	BaseStmt
	Keyword token.Token
	Value   Expr // nil for bare return
}

// ImportSymbol is one entry of an import symbol list.
type ImportSymbol struct {
	Name  token.Token
	Alias *token.Token // nil when no alias was given
}

// ImportStmt represents an import statement:
//
//	import { a, b as c } from "path";
//	import { * } from "path";
//
// The resolver rewrites Path.Lexeme to the resolved absolute file path.
type ImportStmt struct {
	BaseStmt
	Star    bool
	Symbols []ImportSymbol
	Path    token.Token
}

// PackStmt represents statements produced by one source statement,
// such as a comma-packed var declaration.
type PackStmt struct {
	BaseStmt
	Stmts []Stmt
}

// ErrorStmt is a placeholder emitted where the parser recovered from a
// syntax error. It never reaches the interpreter: the driver stops
// after parsing when the error count is non-zero.
type ErrorStmt struct {
	BaseStmt
}

// Ensure all statement types implement Stmt interface.
var (
	_ Stmt = (*ExpressionStmt)(nil)
	_ Stmt = (*VarDeclStmt)(nil)
	_ Stmt = (*FuncDeclStmt)(nil)
	_ Stmt = (*ClassDeclStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*ImportStmt)(nil)
	_ Stmt = (*PackStmt)(nil)
	_ Stmt = (*ErrorStmt)(nil)
)
