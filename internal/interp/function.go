package interp

import (
	"fmt"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/object"
	"github.com/Morphlng/cploxplox/internal/token"
)

// Function is a user-declared function, method or lambda. It holds the
// declaring AST, the default-argument values evaluated once at
// construction, a reference to the closure context, and the class
// object owning it (nil Object for free functions) used to resolve
// super within the body.
type Function struct {
	interp    *Interpreter
	belonging object.Object // owning class object, or Nil
	funcName  string
	params    []token.Token
	defaults  []ast.Expr
	body      []ast.Stmt

	defaultValues []object.Object
	closure       *object.Context
	lambda        bool
}

// newFunction creates a named function, evaluating its default values
// in the current context.
func newFunction(i *Interpreter, belonging object.Object, name string, params []token.Token, defaults []ast.Expr, body []ast.Stmt, closure *object.Context) (*Function, error) {
	f := &Function{
		interp:    i,
		belonging: belonging,
		funcName:  name,
		params:    params,
		defaults:  defaults,
		body:      body,
		closure:   closure,
	}
	if err := f.initDefaultValues(); err != nil {
		return nil, err
	}
	return f, nil
}

// newLambda creates an anonymous function.
func newLambda(i *Interpreter, params []token.Token, defaults []ast.Expr, body []ast.Stmt, closure *object.Context) (*Function, error) {
	f := &Function{
		interp:  i,
		params:  params,
		defaults: defaults,
		body:    body,
		closure: closure,
		lambda:  true,
	}
	if err := f.initDefaultValues(); err != nil {
		return nil, err
	}
	return f, nil
}

// initDefaultValues evaluates the default expressions exactly once,
// in the context current at function-value construction time.
func (f *Function) initDefaultValues() error {
	for _, expr := range f.defaults {
		val, err := f.interp.evaluate(expr)
		if err != nil {
			return err
		}
		f.defaultValues = append(f.defaultValues, val)
	}
	return nil
}

// Call binds parameters in a fresh child of the closure, fills the
// missing optional arguments tail-aligned from the stored defaults,
// and executes the body until the return cell is set.
func (f *Function) Call(args []object.Object) (object.Object, error) {
	i := f.interp

	// callers reached through the evaluator have already checked the
	// argument count; direct calls (operator overloading, reserved
	// methods) have not
	if len(args) < f.RequiredParams() || len(args) > f.Arity() {
		return object.Nil(), &object.RuntimeError{
			Message: fmt.Sprintf("Function expected %d argument(s), including %d optional, instead got %d",
				f.Arity(), len(f.defaultValues), len(args)),
		}
	}

	env := object.NewContext(f.closure)
	for idx, arg := range args {
		env.Set(f.params[idx].Lexeme, arg)
	}
	if missing := f.Arity() - len(args); missing > 0 {
		// the last `arity - len(args)` defaults apply
		for n := 0; n < missing; n++ {
			param := f.params[len(args)+n]
			env.Set(param.Lexeme, f.defaultValues[len(f.defaultValues)-missing+n])
		}
	}

	prevCtx := i.context
	prevFn := i.current
	i.context = env
	i.current = f
	defer func() {
		i.context = prevCtx
		i.current = prevFn
	}()

	// a function body is never top level: no REPL echo inside it
	if i.replEcho {
		i.replEcho = false
		defer func() { i.replEcho = true }()
	}

	for _, stmt := range f.body {
		if err := i.execute(stmt); err != nil {
			return object.Nil(), err
		}
		if i.returns != nil {
			break
		}
	}

	if i.returns != nil {
		return i.getReturn(), nil
	}
	return object.Nil(), nil
}

func (f *Function) Arity() int {
	return len(f.params)
}

func (f *Function) RequiredParams() int {
	return len(f.params) - len(f.defaultValues)
}

// BindThis produces a copy whose scope defines this as the instance.
// Lambdas cannot bind this.
func (f *Function) BindThis(instance *object.Instance) object.Callable {
	if f.lambda {
		return nil
	}

	env := object.NewContext(f.closure)
	env.Set("this", object.NewInstance(instance))

	return &Function{
		interp:        f.interp,
		belonging:     f.belonging,
		funcName:      f.funcName,
		params:        f.params,
		defaults:      f.defaults,
		body:          f.body,
		defaultValues: f.defaultValues, // already computed, no need to redo
		closure:       env,
	}
}

func (f *Function) Name() string {
	if f.lambda {
		return "anonymous"
	}
	return f.funcName
}

func (f *Function) String() string {
	if f.lambda {
		return "<anonymous function>"
	}
	return fmt.Sprintf("<function %s>", f.funcName)
}
