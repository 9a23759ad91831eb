package interp

import (
	"strings"
	"sync"

	"github.com/coregx/coregex"

	"github.com/Morphlng/cploxplox/internal/object"
)

var (
	stringOnce  sync.Once
	stringClass *object.Class
)

// StringClass returns the shared native String class.
// It must be a singleton so instances from different call sites
// compare as the same class.
func StringClass() *object.Class {
	stringOnce.Do(buildStringClass)
	return stringClass
}

// NewStringInstance wraps a Go string into a String instance.
func NewStringInstance(s string) object.Object {
	inst := object.NewInstanceOf(StringClass())
	inst.Set("str", object.Str(s))
	return object.NewInstance(inst)
}

// compileRegex compiles a pattern argument for the regex-taking
// String methods.
func compileRegex(arg object.Object, method string) (*coregex.Regexp, error) {
	if !arg.IsString() {
		return nil, &object.RuntimeError{
			Message: "Expecting a string pattern to " + method + " string",
		}
	}
	re, err := coregex.Compile(arg.Str())
	if err != nil {
		return nil, &object.RuntimeError{
			Message: "Invalid pattern for " + method + ": " + err.Error(),
		}
	}
	return re, nil
}

// thisStr reads the backing string field; init guarantees it exists.
func thisStr(this *object.Instance) string {
	return this.Get("str").Str()
}

func buildStringClass() {
	methods := map[string]object.Callable{
		"init": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			this.Set("str", object.Str(args[0].String()))
			return object.Nil(), nil
		}),

		"length": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Number(float64(len(thisStr(this)))), nil
		}),

		"trim": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return NewStringInstance(strings.Trim(thisStr(this), " ")), nil
		}),

		"split": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			re, err := compileRegex(args[0], "split")
			if err != nil {
				return object.Nil(), err
			}

			parts := re.Split(thisStr(this), -1)
			items := make([]object.Object, 0, len(parts))
			for _, part := range parts {
				items = append(items, object.Str(part))
			}
			return NewListInstance(items), nil
		}),

		"match": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			re, err := compileRegex(args[0], "match")
			if err != nil {
				return object.Nil(), err
			}
			return object.Bool(re.MatchString(thisStr(this))), nil
		}),

		"replace": object.NewNativeMethod(2, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			re, err := compileRegex(args[0], "replace")
			if err != nil {
				return object.Nil(), err
			}
			if !args[1].IsString() {
				return object.Nil(), &object.RuntimeError{
					Message: "Expecting a string replacement",
				}
			}
			return NewStringInstance(re.ReplaceAllString(thisStr(this), args[1].Str())), nil
		}),

		"__add__": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			rhs := args[0]
			switch {
			case rhs.IsString():
				return NewStringInstance(thisStr(this) + rhs.Str()), nil
			case rhs.IsInstance() && rhs.Instance().Belonging == this.Belonging:
				return NewStringInstance(thisStr(this) + thisStr(rhs.Instance())), nil
			default:
				return object.Nil(), &object.RuntimeError{
					Message: "Illegal operator '+' for operands InstanceOf(String) and type(" +
						object.TypeName(rhs.Type) + ")",
				}
			}
		}),

		"__mul__": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			if !args[0].IsNumber() {
				return object.Nil(), &object.RuntimeError{
					Message: "Illegal operator '*' for operands InstanceOf(String) and type(" +
						object.TypeName(args[0].Type) + ")",
				}
			}
			repeated, err := object.Mul(object.Str(thisStr(this)), args[0])
			if err != nil {
				return object.Nil(), err
			}
			return NewStringInstance(repeated.Str()), nil
		}),

		"__equal__": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			// == compares same kinds only, so the right side is an
			// instance, though not necessarily a String
			other := args[0].Instance().Get("str")
			return object.Bool(other.IsString() && other.Str() == thisStr(this)), nil
		}),

		"__repr__": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Str(thisStr(this)), nil
		}),
	}

	stringClass = object.NewNativeClass("String", methods, map[string]object.Type{
		"str": object.STRING,
	})
}
