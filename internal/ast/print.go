package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/Morphlng/cploxplox/internal/token"
)

// Printer provides pretty-printing for AST nodes.
// Used by the -D debug flag to dump the parsed tree.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes a pretty-printed representation of the statements to the writer.
func (p *Printer) Print(stmts []Stmt) error {
	for _, s := range stmts {
		p.printStmt(s)
		p.printf("\n")
	}
	return p.err
}

// Dump returns the pretty-printed form of the statements as a string.
func Dump(stmts []Stmt) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(stmts)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.printf("    ")
	}
}

func (p *Printer) printStmt(stmt Stmt) {
	if stmt == nil {
		p.printf("<nil>")
		return
	}

	switch s := stmt.(type) {
	case *ExpressionStmt:
		p.printExpr(s.Expr)
		p.printf(";")

	case *VarDeclStmt:
		p.printf("var %s", s.Name.Lexeme)
		if s.Init != nil {
			p.printf(" = ")
			p.printExpr(s.Init)
		}
		p.printf(";")

	case *FuncDeclStmt:
		p.printf("func %s", s.Name.Lexeme)
		p.printParams(s.Params, s.Defaults)
		p.printBody(s.Body)

	case *ClassDeclStmt:
		p.printf("class %s", s.Name.Lexeme)
		if s.Super != nil {
			p.printf(" > %s", s.Super.Name.Lexeme)
		}
		p.printf(" {\n")
		p.indent++
		for _, m := range s.Methods {
			p.writeIndent()
			p.printf("%s", m.Name.Lexeme)
			p.printParams(m.Params, m.Defaults)
			p.printBody(m.Body)
			p.printf("\n")
		}
		p.indent--
		p.writeIndent()
		p.printf("}")

	case *BlockStmt:
		p.printBody(s.Stmts)

	case *IfStmt:
		p.printf("if (")
		p.printExpr(s.Cond)
		p.printf(") ")
		p.printStmt(s.Then)
		if s.Else != nil {
			p.printf(" else ")
			p.printStmt(s.Else)
		}

	case *WhileStmt:
		p.printf("while (")
		p.printExpr(s.Cond)
		p.printf(") ")
		p.printStmt(s.Body)

	case *ForStmt:
		p.printf("for (")
		if s.Init != nil {
			p.printStmt(s.Init)
		} else {
			p.printf(";")
		}
		p.printf(" ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		p.printf("; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		p.printf(") ")
		p.printStmt(s.Body)

	case *BreakStmt:
		p.printf("break;")

	case *ContinueStmt:
		p.printf("continue;")

	case *ReturnStmt:
		p.printf("return")
		if s.Value != nil {
			p.printf(" ")
			p.printExpr(s.Value)
		}
		p.printf(";")

	case *ImportStmt:
		p.printf("import { ")
		if s.Star {
			p.printf("*")
		} else {
			for i, sym := range s.Symbols {
				if i > 0 {
					p.printf(", ")
				}
				p.printf("%s", sym.Name.Lexeme)
				if sym.Alias != nil {
					p.printf(" as %s", sym.Alias.Lexeme)
				}
			}
		}
		p.printf(" } from %q;", s.Path.Lexeme)

	case *PackStmt:
		for i, inner := range s.Stmts {
			if i > 0 {
				p.printf(" ")
			}
			p.printStmt(inner)
		}

	case *ErrorStmt:
		p.printf("<error>")

	default:
		p.printf("<%T>", stmt)
	}
}

func (p *Printer) printBody(stmts []Stmt) {
	p.printf("{\n")
	p.indent++
	for _, s := range stmts {
		p.writeIndent()
		p.printStmt(s)
		p.printf("\n")
	}
	p.indent--
	p.writeIndent()
	p.printf("}")
}

func (p *Printer) printParams(params []token.Token, defaults []Expr) {
	p.printf("(")
	required := len(params) - len(defaults)
	for i, param := range params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s", param.Lexeme)
		if i >= required {
			p.printf(" = ")
			p.printExpr(defaults[i-required])
		}
	}
	p.printf(")")
}

func (p *Printer) printExpr(expr Expr) {
	if expr == nil {
		p.printf("<nil>")
		return
	}

	switch e := expr.(type) {
	case *LiteralExpr:
		p.printf("%s", e.Value.Lexeme)

	case *VariableExpr:
		p.printf("%s", e.Name.Lexeme)

	case *ListExpr:
		p.printf("[")
		for i, item := range e.Items {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(item)
		}
		p.printf("]")

	case *BinaryExpr:
		p.printf("(")
		p.printExpr(e.Left)
		p.printf(" %s ", e.Op.Lexeme)
		p.printExpr(e.Right)
		p.printf(")")

	case *UnaryExpr:
		p.printf("%s", e.Op.Lexeme)
		p.printExpr(e.Expr)

	case *TernaryExpr:
		p.printf("(")
		p.printExpr(e.Cond)
		p.printf(" ? ")
		p.printExpr(e.Then)
		p.printf(" : ")
		p.printExpr(e.Else)
		p.printf(")")

	case *OrExpr:
		p.printf("(")
		p.printExpr(e.Left)
		p.printf(" or ")
		p.printExpr(e.Right)
		p.printf(")")

	case *AndExpr:
		p.printf("(")
		p.printExpr(e.Left)
		p.printf(" and ")
		p.printExpr(e.Right)
		p.printf(")")

	case *AssignmentExpr:
		p.printf("%s %s ", e.Name.Lexeme, e.Op.Lexeme)
		p.printExpr(e.Value)

	case *IncrementExpr:
		if e.Postfix {
			p.printExpr(e.Holder)
			p.printf("++")
		} else {
			p.printf("++")
			p.printExpr(e.Holder)
		}

	case *DecrementExpr:
		if e.Postfix {
			p.printExpr(e.Holder)
			p.printf("--")
		} else {
			p.printf("--")
			p.printExpr(e.Holder)
		}

	case *CallExpr:
		p.printExpr(e.Callee)
		p.printf("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(arg)
		}
		p.printf(")")

	case *RetrieveExpr:
		p.printExpr(e.Holder)
		if e.Kind == RetrieveProp {
			p.printf(".%s", e.Prop.Lexeme)
		} else {
			p.printf("[")
			p.printExpr(e.Index)
			p.printf("]")
		}

	case *SetExpr:
		p.printExpr(e.Holder)
		if e.Kind == RetrieveProp {
			p.printf(".%s", e.Prop.Lexeme)
		} else {
			p.printf("[")
			p.printExpr(e.Index)
			p.printf("]")
		}
		p.printf(" %s ", e.Op.Lexeme)
		p.printExpr(e.Value)

	case *LambdaExpr:
		p.printf("func")
		p.printParams(e.Params, e.Defaults)
		p.printBody(e.Body)

	case *ThisExpr:
		p.printf("this")

	case *SuperExpr:
		p.printf("super.%s", e.Method.Lexeme)

	case *PackExpr:
		for i, inner := range e.Exprs {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(inner)
		}

	default:
		p.printf("<%T>", expr)
	}
}
