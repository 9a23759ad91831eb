// Package interp implements the tree-walking evaluator: statement
// execution, expression evaluation, calls, classes, modules and the
// preset environment of built-ins.
package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/object"
	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/token"
)

// Control-flow signals. break and continue unwind as sentinel errors
// caught exclusively by the enclosing while/for; return uses the
// pending-return cell on the interpreter.
var (
	errBreak    = errors.New("break outside loop")
	errContinue = errors.New("continue outside loop")
)

// ExitSignal unwinds from the exit builtin to the entry point.
type ExitSignal struct {
	Code int
}

func (e *ExitSignal) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Config carries the host environment of an interpreter.
type Config struct {
	Stdout   io.Writer
	Stdin    io.Reader
	Reporter *report.Reporter
	// LibPath overrides the LOXLIB import search path ("" = environment).
	LibPath string
}

// Interpreter evaluates resolved ASTs. It owns the preset context of
// built-ins, the global context of the running file, and the module
// cache shared across imports.
type Interpreter struct {
	preset  *object.Context
	global  *object.Context
	context *object.Context

	// returns is the pending-return cell; statement loops stop while
	// it is set.
	returns *object.Object

	// current is the innermost user callable being executed, used to
	// resolve super against its owning class.
	current object.Callable

	modules  map[string]*Module
	replEcho bool

	stdout   io.Writer
	stdin    *bufio.Reader
	reporter *report.Reporter
	libPath  string
}

// New creates an interpreter with the preset environment loaded.
func New(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Reporter == nil {
		cfg.Reporter = report.NewReporter(nil)
	}

	i := &Interpreter{
		preset:   object.NewContext(nil),
		modules:  make(map[string]*Module),
		stdout:   cfg.Stdout,
		stdin:    bufio.NewReader(cfg.Stdin),
		reporter: cfg.Reporter,
		libPath:  cfg.LibPath,
	}
	i.global = object.NewContext(i.preset)
	i.context = i.global
	i.global.Set("__name__", object.Str("__main__"))
	i.loadPresetEnvironment()
	return i
}

// SetEcho toggles REPL expression echoing.
func (i *Interpreter) SetEcho(echo bool) {
	i.replEcho = echo
}

// Stdout returns the interpreter's output writer.
func (i *Interpreter) Stdout() io.Writer {
	return i.stdout
}

// Interpret executes the statements in order. The first runtime error
// aborts and is returned; global state stays usable.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (i *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		result, err := i.evaluate(s.Expr)
		if err != nil {
			return err
		}
		if i.replEcho && !result.IsNil() {
			fmt.Fprintln(i.stdout, result.String())
		}
		return nil

	case *ast.VarDeclStmt:
		init := object.Nil()
		if s.Init != nil {
			val, err := i.evaluate(s.Init)
			if err != nil {
				return err
			}
			init = val
		}
		i.context.Set(s.Name.Lexeme, init)
		return nil

	case *ast.FuncDeclStmt:
		fn, err := newFunction(i, object.Nil(), s.Name.Lexeme, s.Params, s.Defaults, s.Body, i.context)
		if err != nil {
			return err
		}
		i.context.Set(s.Name.Lexeme, object.NewCallable(fn))
		return nil

	case *ast.ClassDeclStmt:
		return i.executeClassDecl(s)

	case *ast.BlockStmt:
		return i.executeBlock(s.Stmts)

	case *ast.IfStmt:
		cond, err := i.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if cond.IsTrue() {
			return i.execute(s.Then)
		}
		if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !cond.IsTrue() {
				return nil
			}

			switch err := i.execute(s.Body); {
			case errors.Is(err, errBreak):
				return nil
			case errors.Is(err, errContinue):
				// next iteration
			case err != nil:
				return err
			}

			if i.returns != nil {
				return nil
			}
		}

	case *ast.ForStmt:
		return i.executeFor(s)

	case *ast.BreakStmt:
		return errBreak

	case *ast.ContinueStmt:
		return errContinue

	case *ast.ReturnStmt:
		value := object.Nil()
		if s.Value != nil {
			val, err := i.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = val
		}
		i.returns = &value
		return nil

	case *ast.ImportStmt:
		return i.executeImport(s)

	case *ast.PackStmt:
		for _, inner := range s.Stmts {
			if err := i.execute(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.ErrorStmt:
		return nil

	default:
		return &object.RuntimeError{
			Start:   stmt.Pos(),
			End:     stmt.End(),
			Message: fmt.Sprintf("Cannot execute statement %T", stmt),
		}
	}
}

// executeBlock runs statements in a fresh child context, disposed on
// exit. Return propagation short-circuits the block. Expression echo
// is suppressed inside blocks.
func (i *Interpreter) executeBlock(stmts []ast.Stmt) error {
	if i.replEcho {
		i.replEcho = false
		defer func() { i.replEcho = true }()
	}

	prev := i.context
	i.context = object.NewContext(prev)
	defer func() { i.context = prev }()

	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
		if i.returns != nil {
			return nil
		}
	}
	return nil
}

// executeFor runs the three-clause loop inside its own scope so the
// initializer's declarations stay local to the statement.
func (i *Interpreter) executeFor(s *ast.ForStmt) error {
	prev := i.context
	i.context = object.NewContext(prev)
	defer func() { i.context = prev }()

	if s.Init != nil {
		if err := i.execute(s.Init); err != nil {
			return err
		}
	}

	for {
		if s.Cond != nil {
			cond, err := i.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !cond.IsTrue() {
				return nil
			}
		}

		switch err := i.execute(s.Body); {
		case errors.Is(err, errBreak):
			return nil
		case errors.Is(err, errContinue):
			// fall through to the post clause
		case err != nil:
			return err
		}

		if i.returns != nil {
			return nil
		}

		if s.Post != nil {
			if _, err := i.evaluate(s.Post); err != nil {
				return err
			}
		}
	}
}

// executeClassDecl defines a class in two steps, declaration then
// assignment, so methods of the class can refer to the class itself.
func (i *Interpreter) executeClassDecl(s *ast.ClassDeclStmt) error {
	// native classes may not be shadowed by user classes
	if prev := i.context.Get(s.Name.Lexeme); !prev.IsNil() && prev.IsCallable() {
		if class, ok := prev.Callable().(*object.Class); ok && class.IsNative {
			return &object.RuntimeError{
				Start:   s.Name.Start,
				End:     s.Name.End,
				Message: "Not allowed to redefine NativeClass",
			}
		}
	}

	i.context.Set(s.Name.Lexeme, object.Nil())

	var super *object.Class
	if s.Super != nil {
		superObj, err := i.evaluate(s.Super)
		if err != nil {
			return err
		}
		class, ok := superObj.Callable().(*object.Class)
		if !superObj.IsCallable() || !ok {
			return &object.RuntimeError{
				Start:   s.Super.Pos(),
				End:     s.Super.End(),
				Message: "SuperClass must be a Class",
			}
		}
		super = class
	}

	methods := make(map[string]object.Callable, len(s.Methods))
	class := object.NewClass(s.Name.Lexeme, methods, super)
	classObj := object.NewCallable(class)
	i.context.Change(s.Name.Lexeme, classObj)

	for _, method := range s.Methods {
		fn, err := newFunction(i, classObj, method.Name.Lexeme, method.Params, method.Defaults, method.Body, i.context)
		if err != nil {
			return err
		}
		methods[method.Name.Lexeme] = fn
	}
	return nil
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (i *Interpreter) evaluate(expr ast.Expr) (object.Object, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return object.FromLiteral(e.Value)

	case *ast.VariableExpr:
		ref := i.lookupVariable(e.Name.Lexeme, e.Depth)
		if ref == object.NilRef() {
			return object.Nil(), &object.RuntimeError{
				Start:   e.Name.Start,
				End:     e.Name.End,
				Message: "Undefined variable " + e.Name.Lexeme,
			}
		}
		return *ref, nil

	case *ast.AssignmentExpr:
		return i.evalAssignment(e)

	case *ast.BinaryExpr:
		return i.evalBinary(e)

	case *ast.UnaryExpr:
		return i.evalUnary(e)

	case *ast.TernaryExpr:
		cond, err := i.evaluate(e.Cond)
		if err != nil {
			return object.Nil(), err
		}
		if cond.IsTrue() {
			return i.evaluate(e.Then)
		}
		return i.evaluate(e.Else)

	case *ast.OrExpr:
		// one true operand is enough
		lhs, err := i.evaluate(e.Left)
		if err != nil {
			return object.Nil(), err
		}
		if lhs.IsTrue() {
			return object.Bool(true), nil
		}
		rhs, err := i.evaluate(e.Right)
		if err != nil {
			return object.Nil(), err
		}
		return object.Bool(rhs.IsTrue()), nil

	case *ast.AndExpr:
		// one false operand is enough
		lhs, err := i.evaluate(e.Left)
		if err != nil {
			return object.Nil(), err
		}
		if !lhs.IsTrue() {
			return object.Bool(false), nil
		}
		rhs, err := i.evaluate(e.Right)
		if err != nil {
			return object.Nil(), err
		}
		return object.Bool(rhs.IsTrue()), nil

	case *ast.IncrementExpr:
		return i.evalStep(e.Holder, e.Postfix, object.Number(1), "++")

	case *ast.DecrementExpr:
		return i.evalStep(e.Holder, e.Postfix, object.Number(-1), "--")

	case *ast.CallExpr:
		return i.evalCall(e)

	case *ast.RetrieveExpr:
		return i.evalRetrieve(e)

	case *ast.SetExpr:
		return i.evalSet(e)

	case *ast.ThisExpr:
		return *i.lookupVariable("this", e.Depth), nil

	case *ast.SuperExpr:
		return i.evalSuper(e)

	case *ast.LambdaExpr:
		fn, err := newLambda(i, e.Params, e.Defaults, e.Body, i.context)
		if err != nil {
			return object.Nil(), err
		}
		return object.NewCallable(fn), nil

	case *ast.ListExpr:
		items := make([]object.Object, 0, len(e.Items))
		for _, item := range e.Items {
			val, err := i.evaluate(item)
			if err != nil {
				return object.Nil(), err
			}
			items = append(items, val)
		}
		return NewListInstance(items), nil

	case *ast.PackExpr:
		// a comma-joined sequence yields its last value
		var ret object.Object
		for _, inner := range e.Exprs {
			val, err := i.evaluate(inner)
			if err != nil {
				return object.Nil(), err
			}
			ret = val
		}
		return ret, nil

	default:
		return object.Nil(), &object.RuntimeError{
			Start:   expr.Pos(),
			End:     expr.End(),
			Message: fmt.Sprintf("Cannot evaluate expression %T", expr),
		}
	}
}

func (i *Interpreter) evalAssignment(e *ast.AssignmentExpr) (object.Object, error) {
	ref := i.lookupVariable(e.Name.Lexeme, e.Depth)

	value, err := i.evaluate(e.Value)
	if err != nil {
		return object.Nil(), err
	}
	if ref == object.NilRef() {
		// compared by address against the sentinel (a user binding
		// holding nil is a different Object); assigning to an unbound
		// name is a silent no-op
		return value, nil
	}
	value, err = i.combineAssign(*ref, value, e.Op.Type)
	if err != nil {
		return object.Nil(), i.locate(err, e)
	}

	*ref = value
	return value, nil
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpr) (object.Object, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return object.Nil(), err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return object.Nil(), err
	}

	var result object.Object
	switch e.Op.Type {
	case token.PLUS:
		result, err = object.Add(left, right)
	case token.MINUS:
		result, err = object.Sub(left, right)
	case token.STAR:
		result, err = object.Mul(left, right)
	case token.SLASH:
		result, err = object.Div(left, right)
	case token.PERCENT:
		result, err = object.Mod(left, right)
	case token.GT:
		var b bool
		b, err = object.Greater(left, right)
		result = object.Bool(b)
	case token.GT_EQ:
		var b bool
		b, err = object.GreaterEqual(left, right)
		result = object.Bool(b)
	case token.LT:
		var b bool
		b, err = object.Less(left, right)
		result = object.Bool(b)
	case token.LT_EQ:
		var b bool
		b, err = object.LessEqual(left, right)
		result = object.Bool(b)
	case token.EQ_EQ:
		var b bool
		b, err = object.Equal(left, right)
		result = object.Bool(b)
	case token.BANG_EQ:
		var b bool
		b, err = object.Equal(left, right)
		result = object.Bool(!b)
	default:
		err = &object.RuntimeError{Message: "Invalid Binary operand"}
	}

	if err != nil {
		return object.Nil(), i.locate(err, e)
	}
	return result, nil
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpr) (object.Object, error) {
	operand, err := i.evaluate(e.Expr)
	if err != nil {
		return object.Nil(), err
	}

	var result object.Object
	switch e.Op.Type {
	case token.MINUS:
		result, err = object.Negate(operand)
	case token.BANG:
		result, err = object.Not(operand)
	default:
		err = &object.RuntimeError{Message: "Invalid Unary operand"}
	}

	if err != nil {
		return object.Nil(), i.locate(err, e)
	}
	return result, nil
}

// evalStep implements ++ and --. The operand must be a number; prefix
// yields the new value, postfix the previous one. The write goes back
// through the original variable or retrieve path.
func (i *Interpreter) evalStep(holder ast.Expr, postfix bool, delta object.Object, opName string) (object.Object, error) {
	prev, err := i.evaluate(holder)
	if err != nil {
		return object.Nil(), err
	}
	if !prev.IsNumber() {
		return object.Nil(), &object.RuntimeError{
			Start:   holder.Pos(),
			End:     holder.End(),
			Message: fmt.Sprintf("Operator '%s' does not support type(%s)", opName, object.TypeName(prev.Type)),
		}
	}

	result, err := object.Add(prev, delta)
	if err != nil {
		return object.Nil(), i.locate(err, holder)
	}

	switch target := holder.(type) {
	case *ast.VariableExpr:
		i.context.Change(target.Name.Lexeme, result)

	case *ast.RetrieveExpr:
		holderVal, err := i.evaluate(target.Holder)
		if err != nil {
			return object.Nil(), err
		}
		switch {
		case belongsToClass(holderVal, "List") && target.Kind == ast.RetrieveIndex:
			index, err := i.evaluate(target.Index)
			if err != nil {
				return object.Nil(), err
			}
			if !index.IsNumber() {
				return object.Nil(), &object.RuntimeError{
					Start:   target.Index.Pos(),
					End:     target.Index.End(),
					Message: "Index should be a number",
				}
			}
			ref, err := listAt(holderVal, index)
			if err != nil {
				return object.Nil(), i.locate(err, target)
			}
			*ref = result

		case holderVal.IsInstance() && target.Kind == ast.RetrieveProp:
			holderVal.Instance().Set(target.Prop.Lexeme, result)
		}
	}

	if postfix {
		return prev, nil
	}
	return result, nil
}

func (i *Interpreter) evalCall(e *ast.CallExpr) (object.Object, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return object.Nil(), err
	}
	if !callee.IsCallable() {
		return object.Nil(), &object.RuntimeError{
			Start:   e.Callee.Pos(),
			End:     e.Callee.End(),
			Message: "Expression is not callable",
		}
	}

	args := make([]object.Object, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := i.evaluate(arg)
		if err != nil {
			return object.Nil(), err
		}
		args = append(args, val)
	}

	callable := callee.Callable()

	// An arity of -1 accepts any argument count (native functions
	// only); otherwise required <= len(args) <= arity must hold.
	if callable.Arity() != -1 &&
		(len(args) < callable.RequiredParams() || len(args) > callable.Arity()) {
		return object.Nil(), &object.RuntimeError{
			Start: e.Pos(),
			End:   e.End(),
			Message: fmt.Sprintf("Function expected %d argument(s), including %d optional, instead got %d",
				callable.Arity(), callable.Arity()-callable.RequiredParams(), len(args)),
		}
	}

	result, err := callable.Call(args)
	if err != nil {
		return object.Nil(), i.locate(err, e)
	}
	return result, nil
}

func (i *Interpreter) evalRetrieve(e *ast.RetrieveExpr) (object.Object, error) {
	holder, err := i.evaluate(e.Holder)
	if err != nil {
		return object.Nil(), err
	}

	switch {
	case belongsToClass(holder, "List") && e.Kind == ast.RetrieveIndex:
		index, err := i.evaluate(e.Index)
		if err != nil {
			return object.Nil(), err
		}
		if !index.IsNumber() {
			return object.Nil(), &object.RuntimeError{
				Start:   e.Index.Pos(),
				End:     e.Index.End(),
				Message: "Index should be a number",
			}
		}
		ref, err := listAt(holder, index)
		if err != nil {
			return object.Nil(), i.locate(err, e)
		}
		return *ref, nil

	case holder.IsInstance() && e.Kind == ast.RetrieveProp:
		// missing properties read as nil
		return holder.Instance().Get(e.Prop.Lexeme), nil
	}

	op := "[]"
	if e.Kind == ast.RetrieveProp {
		op = "."
	}
	return object.Nil(), &object.RuntimeError{
		Start:   e.Pos(),
		End:     e.End(),
		Message: fmt.Sprintf("Cannot apply %s to object type(%s)", op, object.TypeName(holder.Type)),
	}
}

func (i *Interpreter) evalSet(e *ast.SetExpr) (object.Object, error) {
	holder, err := i.evaluate(e.Holder)
	if err != nil {
		return object.Nil(), err
	}

	switch {
	case holder.IsInstance() && e.Kind == ast.RetrieveProp:
		prev := holder.Instance().Get(e.Prop.Lexeme)
		value, err := i.evaluate(e.Value)
		if err != nil {
			return object.Nil(), err
		}
		value, err = i.combineAssign(prev, value, e.Op.Type)
		if err != nil {
			return object.Nil(), i.locate(err, e)
		}
		holder.Instance().Set(e.Prop.Lexeme, value)
		return value, nil

	case belongsToClass(holder, "List") && e.Kind == ast.RetrieveIndex:
		index, err := i.evaluate(e.Index)
		if err != nil {
			return object.Nil(), err
		}
		if !index.IsNumber() {
			return object.Nil(), &object.RuntimeError{
				Start:   e.Index.Pos(),
				End:     e.Index.End(),
				Message: "Index should be a number",
			}
		}
		ref, err := listAt(holder, index)
		if err != nil {
			return object.Nil(), i.locate(err, e)
		}

		value, err := i.evaluate(e.Value)
		if err != nil {
			return object.Nil(), err
		}
		value, err = i.combineAssign(*ref, value, e.Op.Type)
		if err != nil {
			return object.Nil(), i.locate(err, e)
		}
		*ref = value
		return value, nil
	}

	return object.Nil(), nil
}

// evalSuper walks to the current function's class's superclass, looks
// the method up there, and binds this from the resolved depth.
func (i *Interpreter) evalSuper(e *ast.SuperExpr) (object.Object, error) {
	var super *object.Class
	switch current := i.current.(type) {
	case *Function:
		if current.belonging.IsCallable() {
			if class, ok := current.belonging.Callable().(*object.Class); ok {
				super = class.Super
			}
		}
	case *object.Class:
		super = current.Super
	}
	if super == nil {
		return object.Nil(), &object.RuntimeError{
			Start:   e.Pos(),
			End:     e.End(),
			Message: "'super' used outside of a subclass method",
		}
	}

	method := super.FindMethod(e.Method.Lexeme)
	if method == nil {
		return object.Nil(), &object.RuntimeError{
			Start:   e.Pos(),
			End:     e.End(),
			Message: "Undefined method " + e.Method.Lexeme,
		}
	}

	instance := i.context.GetAt("this", e.Depth)
	return object.NewCallable(method.BindThis(instance.Instance())), nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// lookupVariable resolves a name against the context chain using the
// resolver's depth annotation; -1 means the global context.
func (i *Interpreter) lookupVariable(name string, depth int) *object.Object {
	if depth != -1 {
		return i.context.GetAt(name, depth)
	}
	return i.global.Get(name)
}

// combineAssign applies an assignment combiner: = replaces, the
// compound forms compute through the matching binary operator.
func (i *Interpreter) combineAssign(prev, value object.Object, op token.Type) (object.Object, error) {
	switch op {
	case token.PLUS_EQ:
		return object.Add(prev, value)
	case token.MINUS_EQ:
		return object.Sub(prev, value)
	case token.STAR_EQ:
		return object.Mul(prev, value)
	case token.SLASH_EQ:
		return object.Div(prev, value)
	default:
		return value, nil
	}
}

// getReturn empties the pending-return cell.
func (i *Interpreter) getReturn() object.Object {
	value := *i.returns
	i.returns = nil
	return value
}

// locate fills in the expression span on a position-less runtime error.
func (i *Interpreter) locate(err error, node ast.Node) error {
	var re *object.RuntimeError
	if errors.As(err, &re) && !re.Start.IsValid() {
		re.Start = node.Pos()
		re.End = node.End()
	}
	return err
}

// belongsToClass reports whether obj is an instance of the named class.
func belongsToClass(obj object.Object, name string) bool {
	return obj.IsInstance() && obj.Instance().Belonging.ClassName == name
}

// listAt returns a reference into the MetaList backing a List instance.
func listAt(holder, index object.Object) (*object.Object, error) {
	items := holder.Instance().Get("@items")
	return object.GetMetaList(items).At(int(index.Number()))
}
