package object

// Context is one frame of name to value bindings with an optional
// parent, forming the lexical scope chain. Lookups return *Object so
// the shared Nil sentinel is distinguishable by address and so callers
// can mutate bindings in place.
type Context struct {
	Variables map[string]*Object
	Parent    *Context
}

// NewContext creates a child context of parent (nil for the root).
func NewContext(parent *Context) *Context {
	return &Context{Variables: make(map[string]*Object), Parent: parent}
}

// Set declares or overwrites a binding in this context.
func (c *Context) Set(name string, val Object) {
	c.Variables[name] = &val
}

// Change walks up the chain and overwrites the first binding found.
// When no binding exists the assignment is a silent no-op.
func (c *Context) Change(name string, val Object) {
	if ref, ok := c.Variables[name]; ok {
		*ref = val
		return
	}
	if c.Parent != nil {
		c.Parent.Change(name, val)
	}
}

// ChangeAt overwrites the binding in the context distance parents up.
func (c *Context) ChangeAt(name string, val Object, distance int) {
	ptr := c.Ancestor(distance)
	if ref, ok := ptr.Variables[name]; ok {
		*ref = val
	}
}

// Get walks up the chain and returns the first binding found, or the
// Nil sentinel when the name is unbound anywhere.
func (c *Context) Get(name string) *Object {
	if ref, ok := c.Variables[name]; ok {
		return ref
	}
	if c.Parent == nil {
		return nilSentinel
	}
	return c.Parent.Get(name)
}

// GetAt returns the binding in the context distance parents up, or the
// Nil sentinel.
func (c *Context) GetAt(name string, distance int) *Object {
	ptr := c.Ancestor(distance)
	if ref, ok := ptr.Variables[name]; ok {
		return ref
	}
	return nilSentinel
}

// Ancestor walks distance parents up the chain.
// A short chain here means the resolver mis-annotated a depth.
func (c *Context) Ancestor(distance int) *Context {
	curr := c
	for i := 0; i < distance; i++ {
		curr = curr.Parent
	}
	return curr
}
