package parser

import (
	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/token"
)

// Parser is a recursive descent parser with one token of lookahead.
//
// Error recovery is panic-mode: an unmet expectation unwinds to the
// nearest declaration boundary, where the error is recorded, an
// ErrorStmt placeholder is emitted and the parser synchronizes to the
// next statement start.
type Parser struct {
	tokens []token.Token
	idx    int
	tok    token.Token // Current token
	prev   token.Token // Previous token
	errors ErrorList   // Accumulated errors
}

// New creates a Parser over a token stream terminated by EOF.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens, idx: -1}
	p.next()
	return p
}

// Parse parses the whole token stream. The returned statements may
// contain ErrorStmt placeholders; Errors reports what went wrong.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for p.tok.Type != token.EOF {
		stmts = append(stmts, p.declaration())
	}
	return stmts
}

// Errors returns the errors collected during parsing.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

func (p *Parser) next() {
	p.prev = p.tok
	if p.idx+1 < len(p.tokens) {
		p.idx++
		p.tok = p.tokens[p.idx]
	}
}

// reverse steps back in the token stream. Used once, to re-parse
// `func (` as a lambda expression after peeking past `func`.
func (p *Parser) reverse(steps int) {
	if p.idx-steps >= 0 {
		p.idx -= steps
		p.tok = p.tokens[p.idx]
		if p.idx > 0 {
			p.prev = p.tokens[p.idx-1]
		} else {
			p.prev = token.Token{}
		}
	}
}

func (p *Parser) check(typ token.Type) bool {
	return p.tok.Type == typ
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			p.next()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given type, and
// aborts the current declaration otherwise.
func (p *Parser) expect(typ token.Type, message string) {
	if !p.check(typ) {
		p.fail(errorAt(p.tok.Start, p.tok.End, "%s", message))
	}
	p.next()
}

// fail unwinds to the enclosing declaration for recovery.
func (p *Parser) fail(err *ParsingError) {
	panic(err)
}

// synchronize consumes tokens until a likely statement boundary:
// just past a semicolon, or right before a statement keyword.
func (p *Parser) synchronize() {
	for p.tok.Type != token.EOF {
		p.next()

		if p.match(token.SEMICOLON) {
			return
		}

		switch p.tok.Type {
		case token.VAR, token.IF, token.WHILE, token.FOR,
			token.FUNC, token.CLASS, token.RETURN:
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Statement parsing
// -----------------------------------------------------------------------------

// declaration parses one top-level or block-level item, recovering
// from parse errors by emitting an ErrorStmt.
func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(*ParsingError)
			if !ok {
				panic(r)
			}
			p.errors.Add(err)
			p.synchronize()
			stmt = &ast.ErrorStmt{BaseStmt: ast.MakeBaseStmt(err.Start, err.End)}
		}
	}()

	switch p.tok.Type {
	case token.VAR:
		p.next()
		return p.varDeclStatement()

	case token.CLASS:
		p.next()
		return p.classDeclStatement()

	case token.FUNC:
		p.next()
		if p.check(token.IDENTIFIER) {
			p.next()
			return p.funcDeclStatement()
		}
		p.reverse(1) // let primary() match it as a lambda
		return p.statement()

	default:
		return p.statement()
	}
}

// varDeclStatement parses one or more comma-joined declarations:
//
//	var a, b = 1, c;
func (p *Parser) varDeclStatement() ast.Stmt {
	start := p.prev.Start
	var stmts []ast.Stmt

	for {
		p.expect(token.IDENTIFIER, "Expected identifier")
		name := p.prev

		var init ast.Expr
		if p.match(token.EQ) {
			init = p.ternary()
		}
		stmts = append(stmts, &ast.VarDeclStmt{
			BaseStmt: ast.MakeBaseStmt(name.Start, p.prev.End),
			Name:     name,
			Init:     init,
		})

		if !p.match(token.COMMA) {
			break
		}
	}

	p.expect(token.SEMICOLON, "Expect ';' after variable declaration")

	if len(stmts) == 1 {
		return stmts[0]
	}
	return &ast.PackStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Stmts:    stmts,
	}
}

// funcDeclStatement parses a function declaration. The name token has
// already been consumed.
func (p *Parser) funcDeclStatement() *ast.FuncDeclStmt {
	name := p.prev
	fn := p.funcBody()

	return &ast.FuncDeclStmt{
		BaseStmt: ast.MakeBaseStmt(name.Start, fn.EndPos),
		Name:     name,
		Params:   fn.Params,
		Defaults: fn.Defaults,
		Body:     fn.Body,
	}
}

// classDeclStatement parses a class declaration with optional single
// inheritance: class C > B { methods }
func (p *Parser) classDeclStatement() *ast.ClassDeclStmt {
	start := p.prev.Start
	p.expect(token.IDENTIFIER, "Expect Class name")
	name := p.prev

	var super *ast.VariableExpr
	if p.match(token.GT) {
		p.expect(token.IDENTIFIER, "Expect SuperClass name")
		super = &ast.VariableExpr{
			BaseExpr: ast.MakeBaseExpr(p.prev.Start, p.prev.End),
			Name:     p.prev,
			Depth:    -1,
		}
	}

	p.expect(token.LBRACE, "Expect '{' before class body")
	var methods []*ast.FuncDeclStmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.expect(token.IDENTIFIER, "Expect method name")
		methods = append(methods, p.funcDeclStatement())
	}
	p.expect(token.RBRACE, "Expect '}' to close up class body")

	return &ast.ClassDeclStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Name:     name,
		Super:    super,
		Methods:  methods,
	}
}

func (p *Parser) statement() ast.Stmt {
	switch p.tok.Type {
	case token.LBRACE:
		p.next()
		start := p.prev.Start
		stmts := p.block()
		return &ast.BlockStmt{
			BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
			Stmts:    stmts,
		}

	case token.IF:
		p.next()
		return p.ifStatement()

	case token.WHILE:
		p.next()
		return p.whileStatement()

	case token.FOR:
		p.next()
		return p.forStatement()

	case token.BREAK:
		p.next()
		keyword := p.prev
		p.expect(token.SEMICOLON, "Expect ';' after break")
		return &ast.BreakStmt{
			BaseStmt: ast.MakeBaseStmt(keyword.Start, p.prev.End),
			Keyword:  keyword,
		}

	case token.CONTINUE:
		p.next()
		keyword := p.prev
		p.expect(token.SEMICOLON, "Expect ';' after continue")
		return &ast.ContinueStmt{
			BaseStmt: ast.MakeBaseStmt(keyword.Start, p.prev.End),
			Keyword:  keyword,
		}

	case token.RETURN:
		p.next()
		return p.returnStatement()

	case token.IMPORT:
		p.next()
		return p.importStatement()

	default:
		return p.exprStatement()
	}
}

func (p *Parser) exprStatement() ast.Stmt {
	start := p.tok.Start
	expr := p.expression()
	p.expect(token.SEMICOLON, "Expect ';' at the end of an expression.")

	return &ast.ExpressionStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Expr:     expr,
	}
}

func (p *Parser) ifStatement() ast.Stmt {
	start := p.prev.Start
	p.expect(token.LPAREN, "Expect '(' after if")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' to close up condition")
	then := p.statement()

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.IfStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Cond:     cond,
		Then:     then,
		Else:     elseBranch,
	}
}

func (p *Parser) whileStatement() ast.Stmt {
	start := p.prev.Start
	p.expect(token.LPAREN, "Expect '(' after while")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' to close up condition")
	body := p.statement()

	return &ast.WhileStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Cond:     cond,
		Body:     body,
	}
}

func (p *Parser) forStatement() ast.Stmt {
	start := p.prev.Start
	p.expect(token.LPAREN, "Expect '(' after for")

	var init ast.Stmt
	if p.match(token.SEMICOLON) {
		// empty initializer
	} else if p.match(token.VAR) {
		init = p.varDeclStatement()
	} else {
		init = p.exprStatement()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(token.SEMICOLON, "Expect ';' after condition")

	var post ast.Expr
	if !p.check(token.RPAREN) {
		post = p.expression()
	}
	p.expect(token.RPAREN, "Expect ')' after for clauses")

	body := p.statement()

	return &ast.ForStmt{
		BaseStmt: ast.MakeBaseStmt(start, p.prev.End),
		Init:     init,
		Cond:     cond,
		Post:     post,
		Body:     body,
	}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.prev
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.expect(token.SEMICOLON, "Expected ';' after return statement")

	return &ast.ReturnStmt{
		BaseStmt: ast.MakeBaseStmt(keyword.Start, p.prev.End),
		Keyword:  keyword,
		Value:    value,
	}
}

// importStatement parses:
//
//	import { a, b as c } from "path";
//	import { * } from "path";
func (p *Parser) importStatement() ast.Stmt {
	keyword := p.prev
	p.expect(token.LBRACE, "Expect '{' after import.")

	star := false
	var symbols []ast.ImportSymbol
	if p.match(token.STAR) {
		star = true
	} else {
		for {
			p.expect(token.IDENTIFIER, "Expect symbol list")
			sym := ast.ImportSymbol{Name: p.prev}

			if p.match(token.AS) {
				p.expect(token.IDENTIFIER, "Expect identifier for alias")
				alias := p.prev
				sym.Alias = &alias
			}
			symbols = append(symbols, sym)

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RBRACE, "Expect '}' to close up import list")
	p.expect(token.FROM, "Expect 'from' before import path")

	p.expect(token.STRING, "Expect module path string")
	path := p.prev
	p.expect(token.SEMICOLON, "Expect ';' after import statement")

	return &ast.ImportStmt{
		BaseStmt: ast.MakeBaseStmt(keyword.Start, p.prev.End),
		Star:     star,
		Symbols:  symbols,
		Path:     path,
	}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for p.tok.Type != token.EOF && !p.check(token.RBRACE) {
		stmts = append(stmts, p.declaration())
	}
	p.expect(token.RBRACE, "Expected } at the end of a block")
	return stmts
}

// -----------------------------------------------------------------------------
// Expression parsing
// -----------------------------------------------------------------------------

// expression parses a full expression, including the comma operator.
func (p *Parser) expression() ast.Expr {
	return p.comma()
}

func (p *Parser) comma() ast.Expr {
	start := p.tok.Start
	exprs := []ast.Expr{p.assignment()}
	for p.match(token.COMMA) {
		exprs = append(exprs, p.assignment())
	}

	if len(exprs) == 1 {
		return exprs[0]
	}
	return &ast.PackExpr{
		BaseExpr: ast.MakeBaseExpr(start, p.prev.End),
		Exprs:    exprs,
	}
}

// assignment parses right-associative assignment, lowering the
// left-hand side to AssignmentExpr (variable target) or SetExpr
// (member/index target).
func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ) {
		op := p.prev
		rvalue := p.assignment() // allows a = b = ... = 1

		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignmentExpr{
				BaseExpr: ast.MakeBaseExpr(expr.Pos(), rvalue.End()),
				Name:     target.Name,
				Op:       op,
				Value:    rvalue,
				Depth:    -1,
			}

		case *ast.RetrieveExpr:
			return &ast.SetExpr{
				BaseExpr: ast.MakeBaseExpr(expr.Pos(), rvalue.End()),
				Holder:   target.Holder,
				Kind:     target.Kind,
				Prop:     target.Prop,
				Index:    target.Index,
				Op:       op,
				Value:    rvalue,
			}
		}

		p.fail(errorAt(expr.Pos(), rvalue.End(), "Invalid assignment target"))
	}

	return expr
}

func (p *Parser) ternary() ast.Expr {
	expr := p.logicOr()

	if p.match(token.QUESTION) {
		then := p.assignment()
		p.expect(token.COLON, "Expect ':' after then branch for ternary expression")
		elseBranch := p.assignment()

		return &ast.TernaryExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), elseBranch.End()),
			Cond:     expr,
			Then:     then,
			Else:     elseBranch,
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		right := p.logicAnd()
		expr = &ast.OrExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), right.End()),
			Left:     expr,
			Right:    right,
		}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		right := p.equality()
		expr = &ast.AndExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), right.End()),
			Left:     expr,
			Right:    right,
		}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binOp((*Parser).comparison, token.EQ_EQ, token.BANG_EQ)
}

func (p *Parser) comparison() ast.Expr {
	return p.binOp((*Parser).term, token.GT, token.GT_EQ, token.LT, token.LT_EQ)
}

func (p *Parser) term() ast.Expr {
	return p.binOp((*Parser).factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return p.binOp((*Parser).unary, token.STAR, token.SLASH, token.PERCENT)
}

// binOp parses a left-associative binary operator level.
func (p *Parser) binOp(operand func(*Parser) ast.Expr, ops ...token.Type) ast.Expr {
	expr := operand(p)
	for p.match(ops...) {
		op := p.prev
		right := operand(p)
		expr = &ast.BinaryExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), right.End()),
			Left:     expr,
			Op:       op,
			Right:    right,
		}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.MINUS, token.BANG) {
		op := p.prev
		right := p.unary()
		return &ast.UnaryExpr{
			BaseExpr: ast.MakeBaseExpr(op.Start, right.End()),
			Op:       op,
			Expr:     right,
		}
	}
	return p.prefix()
}

func (p *Parser) prefix() ast.Expr {
	if p.match(token.PLUS_PLUS, token.MINUS_MIN) {
		op := p.prev
		right := p.call()

		if !ast.IsAssignTarget(right) {
			p.fail(errorAt(right.Pos(), right.End(), "Can only '++' or '--' a variable"))
		}

		base := ast.MakeBaseExpr(op.Start, right.End())
		if op.Type == token.PLUS_PLUS {
			return &ast.IncrementExpr{BaseExpr: base, Holder: right}
		}
		return &ast.DecrementExpr{BaseExpr: base, Holder: right}
	}

	return p.postfix()
}

func (p *Parser) postfix() ast.Expr {
	expr := p.call()
	if p.match(token.PLUS_PLUS, token.MINUS_MIN) {
		op := p.prev

		if !ast.IsAssignTarget(expr) {
			p.fail(errorAt(expr.Pos(), expr.End(), "Can only '++' or '--' a variable"))
		}

		base := ast.MakeBaseExpr(expr.Pos(), op.End)
		if op.Type == token.PLUS_PLUS {
			return &ast.IncrementExpr{BaseExpr: base, Holder: expr, Postfix: true}
		}
		return &ast.DecrementExpr{BaseExpr: base, Holder: expr, Postfix: true}
	}

	return expr
}

// call parses a primary followed by any chain of calls, member
// accesses and index accesses.
func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			args := p.arguments(token.RPAREN)
			p.expect(token.RPAREN, "Expect ')' to close up argument list")
			expr = &ast.CallExpr{
				BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.prev.End),
				Callee:   expr,
				Args:     args,
			}

		case p.match(token.DOT):
			p.expect(token.IDENTIFIER, "Expect property name after '.'")
			expr = &ast.RetrieveExpr{
				BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.prev.End),
				Holder:   expr,
				Kind:     ast.RetrieveProp,
				Prop:     p.prev,
			}

		case p.match(token.LBRACKET):
			index := p.logicOr()
			p.expect(token.RBRACKET, "Expect ']' to close up indexing")
			expr = &ast.RetrieveExpr{
				BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.prev.End),
				Holder:   expr,
				Kind:     ast.RetrieveIndex,
				Index:    index,
			}

		default:
			return expr
		}
	}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL):
		tok := p.prev
		return &ast.LiteralExpr{
			BaseExpr: ast.MakeBaseExpr(tok.Start, tok.End),
			Value:    tok,
		}

	case p.match(token.IDENTIFIER):
		return &ast.VariableExpr{
			BaseExpr: ast.MakeBaseExpr(p.prev.Start, p.prev.End),
			Name:     p.prev,
			Depth:    -1,
		}

	case p.match(token.LPAREN):
		expr := p.expression()
		p.expect(token.RPAREN, "Expected ')' for closure")
		return expr

	case p.match(token.THIS):
		return &ast.ThisExpr{
			BaseExpr: ast.MakeBaseExpr(p.prev.Start, p.prev.End),
			Keyword:  p.prev,
			Depth:    -1,
		}

	case p.match(token.SUPER):
		keyword := p.prev
		p.expect(token.DOT, "Expected '.' to access super fields")
		p.expect(token.IDENTIFIER, "Expected identifier after '.'")
		return &ast.SuperExpr{
			BaseExpr: ast.MakeBaseExpr(keyword.Start, p.prev.End),
			Keyword:  keyword,
			Method:   p.prev,
			Depth:    -1,
		}

	case p.match(token.FUNC):
		return p.funcBody()

	case p.match(token.LBRACKET):
		return p.listExpr()

	default:
		p.fail(errorAt(p.tok.Start, p.tok.End, "Expected expression"))
		return nil
	}
}

func (p *Parser) listExpr() ast.Expr {
	start := p.prev.Start
	items := p.arguments(token.RBRACKET)
	p.expect(token.RBRACKET, "Expect ']' to close up List")

	return &ast.ListExpr{
		BaseExpr: ast.MakeBaseExpr(start, p.prev.End),
		Items:    items,
	}
}

// arguments parses a comma-separated expression list up to the ending
// token (not consumed).
func (p *Parser) arguments(ending token.Type) []ast.Expr {
	var args []ast.Expr
	if !p.check(ending) {
		for {
			args = append(args, p.ternary())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	return args
}

// funcBody parses a parameter list and braced body, shared by
// function declarations and lambdas. Optional parameters (with a
// default value) must not precede required ones.
func (p *Parser) funcBody() *ast.LambdaExpr {
	start := p.prev.Start
	p.expect(token.LPAREN, "Expected '(' before parameter list")

	var params []token.Token
	var defaults []ast.Expr

	if !p.check(token.RPAREN) {
		idx := 0
		firstOptional := int(^uint(0) >> 1)
		lastRequired := 0
		listStart := p.tok.Start

		for {
			p.expect(token.IDENTIFIER, "Expected a parameter name")
			params = append(params, p.prev)

			if p.match(token.EQ) {
				defaults = append(defaults, p.ternary())
				if firstOptional > idx {
					firstOptional = idx
				}
			} else {
				lastRequired = idx
			}
			idx++

			if !p.match(token.COMMA) {
				break
			}
		}

		if lastRequired > firstOptional {
			p.fail(errorAt(listStart, p.tok.End, "Optional parameters cannot precede required one."))
		}
	}

	p.expect(token.RPAREN, "Expected ')' after parameter list")
	p.expect(token.LBRACE, "Expected '{' before function body")
	body := p.block()

	return &ast.LambdaExpr{
		BaseExpr: ast.MakeBaseExpr(start, p.prev.End),
		Params:   params,
		Defaults: defaults,
		Body:     body,
	}
}
