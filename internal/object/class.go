package object

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// reservedMethods are looked up only on the defining class, never
// inherited across the superclass chain.
var reservedMethods = map[string]bool{
	"__add__":   true, // +
	"__sub__":   true, // -
	"__mul__":   true, // *
	"__div__":   true, // /
	"__mod__":   true, // %
	"__equal__": true, // ==
	"__repr__":  true, // for print()
	"__del__":   true, // destructor
}

// IsReservedMethod reports whether name has operator or lifecycle meaning.
func IsReservedMethod(name string) bool {
	return reservedMethods[name]
}

// Class identifies a user-defined or native class. Its Call constructs
// an instance, invoking init when present.
type Class struct {
	ClassName string
	Methods   map[string]Callable
	Super     *Class
	IsNative  bool

	// AllowedFields restricts which fields (and of which kind) are
	// writable on instances of a native class. Nil for user classes.
	AllowedFields map[string]Type
}

// NewClass creates a user-defined class.
func NewClass(name string, methods map[string]Callable, super *Class) *Class {
	return &Class{ClassName: name, Methods: methods, Super: super}
}

// NewNativeClass creates a native class with a field allow-list.
func NewNativeClass(name string, methods map[string]Callable, allowed map[string]Type) *Class {
	return &Class{ClassName: name, Methods: methods, IsNative: true, AllowedFields: allowed}
}

// FindMethod looks up a method, walking to superclasses unless the
// name is reserved.
func (c *Class) FindMethod(name string) Callable {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if !reservedMethods[name] && c.Super != nil {
		return c.Super.FindMethod(name)
	}
	return nil
}

// Call constructs an instance with empty fields, then invokes init
// bound to it when the class declares one.
func (c *Class) Call(args []Object) (Object, error) {
	instance := NewInstanceOf(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.BindThis(instance).Call(args); err != nil {
			return Nil(), err
		}
	}
	return NewInstance(instance), nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) RequiredParams() int {
	if init := c.FindMethod("init"); init != nil {
		return init.RequiredParams()
	}
	return 0
}

func (c *Class) BindThis(instance *Instance) Callable {
	return c
}

func (c *Class) Name() string {
	return c.ClassName
}

func (c *Class) String() string {
	return fmt.Sprintf("<Class %s>", c.ClassName)
}

// hasDestructor reports whether the class chain declares __del__.
func (c *Class) hasDestructor() bool {
	for ptr := c; ptr != nil; ptr = ptr.Super {
		if _, ok := ptr.Methods["__del__"]; ok {
			return true
		}
	}
	return false
}

// Instance is a live object of a class with a property map.
type Instance struct {
	Belonging *Class
	Fields    map[string]Object
}

// NewInstanceOf creates an empty-fields instance of the class.
// When the class chain declares __del__, a finalizer runs the
// destructor chain once the last reference is dropped.
func NewInstanceOf(class *Class) *Instance {
	inst := &Instance{Belonging: class, Fields: make(map[string]Object)}
	if class.hasDestructor() {
		runtime.SetFinalizer(inst, runDestructors)
	}
	return inst
}

// runDestructors invokes __del__ walking from the instance's class up
// through each superclass. A destructor running during teardown must
// not be fatal, so failures are swallowed.
func runDestructors(inst *Instance) {
	defer func() {
		_ = recover()
	}()

	for ptr := inst.Belonging; ptr != nil; ptr = ptr.Super {
		if destructor, ok := ptr.Methods["__del__"]; ok {
			_, _ = destructor.BindThis(inst).Call(nil)
		}
	}
}

// Get returns a field, or a method bound to the instance, or nil for
// missing properties.
func (i *Instance) Get(name string) Object {
	if val, ok := i.Fields[name]; ok {
		return val
	}

	if method := i.Belonging.FindMethod(name); method != nil {
		return NewCallable(method.BindThis(i))
	}

	return Nil()
}

// Set writes a field. On native classes, writes to unauthorized field
// names or mismatched field kinds are silently ignored.
func (i *Instance) Set(name string, val Object) {
	if i.Belonging.IsNative {
		want, ok := i.Belonging.AllowedFields[name]
		if !ok || want != val.Type {
			return
		}
	}
	i.Fields[name] = val
}

// String renders the instance via __repr__ when overloaded, otherwise
// shows the class and current fields.
func (i *Instance) String() string {
	if printer := i.Get("__repr__"); !printer.IsNil() {
		result, err := printer.Callable().Call(nil)
		if err == nil && result.IsString() {
			return result.Str()
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<Instance of %s>", i.Belonging.ClassName)
	if len(i.Fields) > 0 {
		sb.WriteString("\n{\n")
		names := make([]string, 0, len(i.Fields))
		for name := range i.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %s: %s\n", name, i.Fields[name].String())
		}
		sb.WriteByte('}')
	}
	return sb.String()
}
