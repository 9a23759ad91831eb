package interp

import (
	"sync"

	"github.com/Morphlng/cploxplox/internal/object"
)

var (
	listOnce  sync.Once
	listClass *object.Class
)

// ListClass returns the shared native List class.
func ListClass() *object.Class {
	listOnce.Do(buildListClass)
	return listClass
}

// NewListInstance wraps items into a List instance.
func NewListInstance(items []object.Object) object.Object {
	inst := object.NewInstanceOf(ListClass())
	inst.Set("@items", object.NewContainer(object.NewMetaList(items)))
	return object.NewInstance(inst)
}

// thisList reads the backing store; init guarantees it exists.
func thisList(this *object.Instance) *object.MetaList {
	return object.GetMetaList(this.Get("@items"))
}

// expectIndexArg validates an optional numeric fromIndex argument.
func expectIndexArg(args []object.Object) (int, error) {
	if len(args) < 2 {
		return 0, nil
	}
	if !args[1].IsNumber() {
		return 0, &object.RuntimeError{Message: "argument fromIndex must be a number"}
	}
	return int(args[1].Number()), nil
}

// expectFunc validates a callable argument of the exact arity.
func expectFunc(arg object.Object, arity int, verb string) (object.Callable, error) {
	if !arg.IsCallable() {
		return nil, &object.RuntimeError{Message: "Expecting a function to " + verb}
	}
	fn := arg.Callable()
	if _, isClass := fn.(*object.Class); isClass || fn.Arity() != arity {
		return nil, &object.RuntimeError{
			Message: "Expecting a function with " + []string{"zero", "one", "two"}[arity] + " parameters to " + verb,
		}
	}
	return fn, nil
}

func buildListClass() {
	methods := map[string]object.Callable{
		"init": object.NewNativeMethod(-1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			// a single MetaList argument is adopted as the backing
			// store instead of becoming the list's only item
			if len(args) == 1 && object.IsMetaList(args[0]) {
				this.Set("@items", args[0])
				return object.Nil(), nil
			}

			items := make([]object.Object, len(args))
			copy(items, args)
			this.Set("@items", object.NewContainer(object.NewMetaList(items)))
			return object.Nil(), nil
		}),

		"length": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Number(float64(thisList(this).Len())), nil
		}),

		"reverse": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			thisList(this).Reverse()
			return object.Nil(), nil
		}),

		"append": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			thisList(this).Append(args[0])
			return object.Nil(), nil
		}),

		"remove": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Nil(), thisList(this).Remove(args[0])
		}),

		"pop": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return thisList(this).Pop()
		}),

		"unshift": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			thisList(this).Unshift(args[0])
			return object.Nil(), nil
		}),

		"indexOf": object.NewNativeMethod(2, 1, func(this *object.Instance, args []object.Object) (object.Object, error) {
			from, err := expectIndexArg(args)
			if err != nil {
				return object.Nil(), err
			}
			return thisList(this).IndexOf(args[0], from)
		}),

		"lastIndexOf": object.NewNativeMethod(2, 1, func(this *object.Instance, args []object.Object) (object.Object, error) {
			from, err := expectIndexArg(args)
			if err != nil {
				return object.Nil(), err
			}
			return thisList(this).LastIndexOf(args[0], from)
		}),

		"reduce": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			fn, err := expectFunc(args[0], 2, "reduce")
			if err != nil {
				return object.Nil(), err
			}
			return thisList(this).Reduce(fn)
		}),

		"map": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			fn, err := expectFunc(args[0], 1, "map")
			if err != nil {
				return object.Nil(), err
			}
			mapped, err := thisList(this).Map(fn)
			if err != nil {
				return object.Nil(), err
			}
			return NewListInstance(mapped), nil
		}),

		"slice": object.NewNativeMethod(2, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			if !args[0].IsNumber() || !args[1].IsNumber() {
				return object.Nil(), &object.RuntimeError{Message: "range should be represented using Number"}
			}
			items, err := thisList(this).Slice(int(args[0].Number()), int(args[1].Number()))
			if err != nil {
				return object.Nil(), err
			}
			return NewListInstance(items), nil
		}),

		"__equal__": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			if !belongsToClass(args[0], "List") {
				return object.Bool(false), nil
			}
			eq, err := thisList(this).EqualTo(thisList(args[0].Instance()))
			if err != nil {
				return object.Nil(), err
			}
			return object.Bool(eq), nil
		}),

		"__repr__": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Str(this.Get("@items").String()), nil
		}),
	}

	listClass = object.NewNativeClass("List", methods, map[string]object.Type{
		"@items": object.CONTAINER,
	})
}
