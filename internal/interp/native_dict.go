package interp

import (
	"sync"

	"github.com/Morphlng/cploxplox/internal/object"
)

var (
	dictOnce  sync.Once
	dictClass *object.Class
)

// DictClass returns the shared native Dict class: a map keyed by
// arbitrary objects, hashed consistently with == (scalars by value,
// callables/instances/containers by identity).
func DictClass() *object.Class {
	dictOnce.Do(buildDictClass)
	return dictClass
}

// thisMap reads the backing store; init guarantees it exists.
func thisMap(this *object.Instance) *object.MetaMap {
	return object.GetMetaMap(this.Get("@map"))
}

func buildDictClass() {
	methods := map[string]object.Callable{
		"init": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			this.Set("@map", object.NewContainer(object.NewMetaMap()))
			return object.Nil(), nil
		}),

		"length": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Number(float64(thisMap(this).Len())), nil
		}),

		"set": object.NewNativeMethod(2, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			thisMap(this).Set(args[0], args[1])
			return object.Nil(), nil
		}),

		"get": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return thisMap(this).Get(args[0]), nil
		}),

		"delete": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			thisMap(this).Delete(args[0])
			return object.Nil(), nil
		}),

		"keys": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return NewListInstance(thisMap(this).Keys()), nil
		}),

		"__repr__": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Str(this.Get("@map").String()), nil
		}),
	}

	dictClass = object.NewNativeClass("Dict", methods, map[string]object.Type{
		"@map": object.CONTAINER,
	})
}
