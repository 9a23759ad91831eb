package object

import "fmt"

// Callable is anything that can be called with arguments: user
// functions, lambdas, native functions, classes and native methods.
//
// Arity returns the declared parameter count, or -1 for variadic
// native functions. RequiredParams returns the count of parameters
// without defaults; for every callable with non-negative arity,
// RequiredParams() <= Arity().
type Callable interface {
	Call(args []Object) (Object, error)
	Arity() int
	RequiredParams() int

	// BindThis produces a callable whose scope defines this as the
	// given instance. Returns nil for callables that cannot bind.
	BindThis(instance *Instance) Callable

	Name() string
	String() string
}

// NativeFunc is the host signature of a native free function.
type NativeFunc func(args []Object) (Object, error)

// NativeFunction wraps a host function as a callable.
// An arity of -1 accepts any number of arguments.
type NativeFunction struct {
	fn       NativeFunc
	name     string
	arity    int
	optional int
}

// NewNativeFunction creates a native function with the given arity
// and number of trailing optional parameters.
func NewNativeFunction(name string, arity, optional int, fn NativeFunc) *NativeFunction {
	return &NativeFunction{fn: fn, name: name, arity: arity, optional: optional}
}

func (f *NativeFunction) Call(args []Object) (Object, error) {
	return f.fn(args)
}

func (f *NativeFunction) Arity() int {
	return f.arity
}

func (f *NativeFunction) RequiredParams() int {
	// arity of -1 is checked by the interpreter before calling
	return f.arity - f.optional
}

func (f *NativeFunction) BindThis(instance *Instance) Callable {
	// only member functions bind this
	return nil
}

func (f *NativeFunction) Name() string {
	return f.name
}

func (f *NativeFunction) String() string {
	return fmt.Sprintf("<native function %s>", f.name)
}

// NativeMethodFunc is the host signature of a native method; it
// receives the bound instance.
type NativeMethodFunc func(this *Instance, args []Object) (Object, error)

// NativeMethod is a native function carrying an optionally bound this.
type NativeMethod struct {
	fn       NativeMethodFunc
	this     *Instance
	arity    int
	optional int
}

// NewNativeMethod creates an unbound native method.
func NewNativeMethod(arity, optional int, fn NativeMethodFunc) *NativeMethod {
	return &NativeMethod{fn: fn, arity: arity, optional: optional}
}

func (m *NativeMethod) Call(args []Object) (Object, error) {
	return m.fn(m.this, args)
}

func (m *NativeMethod) Arity() int {
	return m.arity
}

func (m *NativeMethod) RequiredParams() int {
	return m.arity - m.optional
}

func (m *NativeMethod) BindThis(instance *Instance) Callable {
	return &NativeMethod{fn: m.fn, this: instance, arity: m.arity, optional: m.optional}
}

func (m *NativeMethod) Name() string {
	return ""
}

func (m *NativeMethod) String() string {
	return "<native method>"
}
