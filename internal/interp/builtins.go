package interp

import (
	"fmt"
	"strings"
	"time"

	"github.com/Morphlng/cploxplox/internal/object"
)

// loadPresetEnvironment installs the built-in functions and classes
// into the preset context, the root of every scope chain.
func (i *Interpreter) loadPresetEnvironment() {
	builtins := []*object.NativeFunction{
		object.NewNativeFunction("clock", 0, 0, func(args []object.Object) (object.Object, error) {
			return object.Number(float64(time.Now().UnixMilli())), nil
		}),

		object.NewNativeFunction("str", 1, 0, func(args []object.Object) (object.Object, error) {
			return object.Str(args[0].String()), nil
		}),

		object.NewNativeFunction("typeof", 1, 0, func(args []object.Object) (object.Object, error) {
			switch args[0].Type {
			case object.CALLABLE:
				if _, ok := args[0].Callable().(*object.Class); ok {
					return object.Str("Class"), nil
				}
				return object.Str("Function"), nil
			case object.INSTANCE:
				return object.Str(args[0].Instance().Belonging.ClassName), nil
			default:
				return object.Str(object.TypeName(args[0].Type)), nil
			}
		}),

		object.NewNativeFunction("print", -1, 0, func(args []object.Object) (object.Object, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, arg.String())
			}
			fmt.Fprintln(i.stdout, strings.Join(parts, " "))
			return object.Nil(), nil
		}),

		object.NewNativeFunction("getc", 0, 0, func(args []object.Object) (object.Object, error) {
			b, err := i.stdin.ReadByte()
			if err != nil {
				return object.Number(-1), nil
			}
			return object.Number(float64(b)), nil
		}),

		object.NewNativeFunction("chr", 1, 0, func(args []object.Object) (object.Object, error) {
			return object.Str(string(rune(byte(args[0].Number())))), nil
		}),

		object.NewNativeFunction("exit", 1, 0, func(args []object.Object) (object.Object, error) {
			return object.Nil(), &ExitSignal{Code: int(args[0].Number())}
		}),

		object.NewNativeFunction("getattr", 3, 1, func(args []object.Object) (object.Object, error) {
			// only instances have attributes
			if !args[0].IsInstance() {
				return object.Nil(), nil
			}

			attr := args[0].Instance().Get(args[1].String())
			if attr.IsNil() && len(args) == 3 {
				return args[2], nil
			}
			return attr, nil
		}),

		// The plugin ABI is C symbol pairs resolved via dlopen; a Go
		// tree-walker cannot honor it.
		object.NewNativeFunction("loadlib", 1, 0, func(args []object.Object) (object.Object, error) {
			return object.Nil(), &object.RuntimeError{
				Message: "dynamic library loading is not supported",
			}
		}),
	}

	for _, fn := range builtins {
		i.preset.Set(fn.Name(), object.NewCallable(fn))
	}

	i.preset.Set("String", object.NewCallable(StringClass()))
	i.preset.Set("List", object.NewCallable(ListClass()))
	i.preset.Set("Dict", object.NewCallable(DictClass()))
	i.preset.Set("Math", NewMathInstance())
}
