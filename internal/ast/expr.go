package ast

import "github.com/Morphlng/cploxplox/internal/token"

// -----------------------------------------------------------------------------
// Values and references
// -----------------------------------------------------------------------------

// LiteralExpr represents a literal value: a number, string, true, false or nil.
// The token is kept as scanned; conversion happens in the object layer.
type LiteralExpr struct {
	BaseExpr
	Value token.Token
}

// VariableExpr represents a variable reference.
// Depth is -1 until the resolver fills in the lexical distance
// (-1 after resolving means the name is global).
type VariableExpr struct {
	BaseExpr
	Name  token.Token
	Depth int
}

// ListExpr represents a list literal.
// Example: [1, "two", [3]]
type ListExpr struct {
	BaseExpr
	Items []Expr
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// BinaryExpr represents a binary operation.
// Examples: a + b, x == y
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr represents a unary operation: -x or !x.
type UnaryExpr struct {
	BaseExpr
	Op   token.Token
	Expr Expr
}

// TernaryExpr represents a conditional expression.
// Example: cond ? a : b
type TernaryExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// OrExpr represents a short-circuit logical or.
type OrExpr struct {
	BaseExpr
	Left  Expr
	Right Expr
}

// AndExpr represents a short-circuit logical and.
type AndExpr struct {
	BaseExpr
	Left  Expr
	Right Expr
}

// -----------------------------------------------------------------------------
// Mutation
// -----------------------------------------------------------------------------

// AssignmentExpr represents an assignment to a variable.
// Op is one of = += -= *= /=. Depth is filled by the resolver.
type AssignmentExpr struct {
	BaseExpr
	Name  token.Token
	Op    token.Token
	Value Expr
	Depth int
}

// IncrementExpr represents ++x or x++.
// The holder must be a VariableExpr or RetrieveExpr.
type IncrementExpr struct {
	BaseExpr
	Holder  Expr
	Postfix bool
}

// DecrementExpr represents --x or x--.
type DecrementExpr struct {
	BaseExpr
	Holder  Expr
	Postfix bool
}

// -----------------------------------------------------------------------------
// Calls and members
// -----------------------------------------------------------------------------

// CallExpr represents a call expression.
// Example: f(a, b)
type CallExpr struct {
	BaseExpr
	Callee Expr
	Args   []Expr
}

// RetrieveKind distinguishes member access from index access.
type RetrieveKind uint8

const (
	RetrieveProp  RetrieveKind = iota // obj.prop
	RetrieveIndex                     // obj[index]
)

// RetrieveExpr represents a member or index access.
// For RetrieveProp, Prop holds the property name; for RetrieveIndex,
// Index holds the subscript expression.
type RetrieveExpr struct {
	BaseExpr
	Holder Expr
	Kind   RetrieveKind
	Prop   token.Token
	Index  Expr
}

// SetExpr represents an assignment through a member or index path.
// Produced by the parser when the left-hand side of an assignment
// operator is a RetrieveExpr.
type SetExpr struct {
	BaseExpr
	Holder Expr
	Kind   RetrieveKind
	Prop   token.Token
	Index  Expr
	Op     token.Token
	Value  Expr
}

// LambdaExpr represents an anonymous function literal.
// Defaults holds the default-value expressions for the trailing
// optional parameters, in parameter order.
type LambdaExpr struct {
	BaseExpr
	Params   []token.Token
	Defaults []Expr
	Body     []Stmt
}

// -----------------------------------------------------------------------------
// Special expressions
// -----------------------------------------------------------------------------

// ThisExpr represents the this keyword. Depth is filled by the resolver.
type ThisExpr struct {
	BaseExpr
	Keyword token.Token
	Depth   int
}

// SuperExpr represents super.method. Depth is filled by the resolver.
type SuperExpr struct {
	BaseExpr
	Keyword token.Token
	Method  token.Token
	Depth   int
}

// PackExpr represents a comma-joined expression sequence.
// Evaluates each in order; the value is the last one.
type PackExpr struct {
	BaseExpr
	Exprs []Expr
}

// Ensure all expression types implement Expr interface.
var (
	_ Expr = (*LiteralExpr)(nil)
	_ Expr = (*VariableExpr)(nil)
	_ Expr = (*ListExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*TernaryExpr)(nil)
	_ Expr = (*OrExpr)(nil)
	_ Expr = (*AndExpr)(nil)
	_ Expr = (*AssignmentExpr)(nil)
	_ Expr = (*IncrementExpr)(nil)
	_ Expr = (*DecrementExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*RetrieveExpr)(nil)
	_ Expr = (*SetExpr)(nil)
	_ Expr = (*LambdaExpr)(nil)
	_ Expr = (*ThisExpr)(nil)
	_ Expr = (*SuperExpr)(nil)
	_ Expr = (*PackExpr)(nil)
)
