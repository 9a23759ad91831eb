// Package object defines the runtime value model: the tagged Object
// variant, callables, classes and instances, scope contexts and the
// boxed containers backing List and Dict.
package object

import (
	"strconv"
	"strings"

	"github.com/Morphlng/cploxplox/internal/token"
)

// Type tags an Object variant.
type Type uint8

const (
	NIL Type = iota
	BOOL
	NUMBER
	STRING
	CALLABLE
	INSTANCE
	CONTAINER
)

// TypeName returns the user-visible name of an object type.
func TypeName(t Type) string {
	switch t {
	case NIL:
		return "nil"
	case BOOL:
		return "bool"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case CALLABLE:
		return "callable"
	case INSTANCE:
		return "instance"
	case CONTAINER:
		return "container"
	default:
		return "impossible"
	}
}

// Object is the runtime value: a tagged union over all variants.
// Objects are passed by value; callables, instances and containers
// share their referents.
type Object struct {
	Type      Type
	num       float64
	str       string
	callable  Callable
	instance  *Instance
	container Container
}

// nilSentinel is the single shared Nil every failed lookup returns.
// Callers compare addresses against NilRef() to distinguish "missing"
// from a user-stored nil value.
var nilSentinel = &Object{Type: NIL}

// NilRef returns the shared Nil sentinel.
func NilRef() *Object {
	return nilSentinel
}

// Constructors

// Nil returns a fresh nil value.
func Nil() Object {
	return Object{Type: NIL}
}

// Bool creates a boolean value.
func Bool(b bool) Object {
	o := Object{Type: BOOL}
	if b {
		o.num = 1
	}
	return o
}

// Number creates a numeric value.
func Number(n float64) Object {
	return Object{Type: NUMBER, num: n}
}

// Str creates a string value.
func Str(s string) Object {
	return Object{Type: STRING, str: s}
}

// NewCallable wraps a callable.
func NewCallable(c Callable) Object {
	return Object{Type: CALLABLE, callable: c}
}

// NewInstance wraps an instance.
func NewInstance(i *Instance) Object {
	return Object{Type: INSTANCE, instance: i}
}

// NewContainer wraps a boxed container.
func NewContainer(c Container) Object {
	return Object{Type: CONTAINER, container: c}
}

// FromLiteral converts a literal token into a value.
// Numeric lexemes with prefix 0b parse as binary, 0x as hex,
// otherwise as decimal.
func FromLiteral(tok token.Token) (Object, error) {
	switch tok.Type {
	case token.NUMBER:
		n, err := ParseNumber(tok.Lexeme)
		if err != nil {
			return Nil(), &RuntimeError{
				Start:   tok.Start,
				End:     tok.End,
				Message: "Invalid number literal " + tok.Lexeme,
			}
		}
		return Number(n), nil
	case token.STRING:
		return Str(tok.Lexeme), nil
	case token.TRUE:
		return Bool(true), nil
	case token.FALSE:
		return Bool(false), nil
	case token.NIL:
		return Nil(), nil
	default:
		return Nil(), &RuntimeError{
			Start:   tok.Start,
			End:     tok.End,
			Message: "Invalid token type when constructing Object",
		}
	}
}

// ParseNumber parses a numeric lexeme: 0x.. hex, 0b.. binary,
// otherwise decimal integer or float.
func ParseNumber(lexeme string) (float64, error) {
	switch {
	case strings.HasPrefix(lexeme, "0x"):
		n, err := strconv.ParseUint(lexeme[2:], 16, 64)
		return float64(n), err
	case strings.HasPrefix(lexeme, "0b"):
		n, err := strconv.ParseUint(lexeme[2:], 2, 64)
		return float64(n), err
	default:
		return strconv.ParseFloat(lexeme, 64)
	}
}

// Accessors

func (o Object) IsNil() bool       { return o.Type == NIL }
func (o Object) IsBool() bool      { return o.Type == BOOL }
func (o Object) IsNumber() bool    { return o.Type == NUMBER }
func (o Object) IsString() bool    { return o.Type == STRING }
func (o Object) IsCallable() bool  { return o.Type == CALLABLE }
func (o Object) IsInstance() bool  { return o.Type == INSTANCE }
func (o Object) IsContainer() bool { return o.Type == CONTAINER }

// Number returns the numeric payload. Valid only for NUMBER values.
func (o Object) Number() float64 {
	return o.num
}

// Bool returns the boolean payload. Valid only for BOOL values.
func (o Object) Bool() bool {
	return o.num != 0
}

// Str returns the string payload. Valid only for STRING values.
func (o Object) Str() string {
	return o.str
}

// Callable returns the callable payload.
func (o Object) Callable() Callable {
	return o.callable
}

// Instance returns the instance payload.
func (o Object) Instance() *Instance {
	return o.instance
}

// Container returns the container payload.
func (o Object) Container() Container {
	return o.container
}

// IsTrue implements the language's truthiness: false, nil and numbers
// not greater than zero are false; everything else is true.
func (o Object) IsTrue() bool {
	switch o.Type {
	case BOOL:
		return o.Bool()
	case NUMBER:
		return o.num > 0
	case NIL:
		return false
	default:
		return true
	}
}

// String returns the display form of the value.
// Numbers print in integer form when the double equals its truncation.
func (o Object) String() string {
	switch o.Type {
	case NIL:
		return "nil"
	case BOOL:
		if o.Bool() {
			return "true"
		}
		return "false"
	case NUMBER:
		return FormatNumber(o.num)
	case STRING:
		return o.str
	case CALLABLE:
		return o.callable.String()
	case INSTANCE:
		return o.instance.String()
	case CONTAINER:
		return o.container.String()
	default:
		return "impossible"
	}
}

// FormatNumber formats a float, dropping the fraction when the value
// is integral.
func FormatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', 6, 64)
}
