package interp

import (
	"math"
	"math/rand"
	"sync"

	"github.com/Morphlng/cploxplox/internal/object"
)

var (
	mathOnce     sync.Once
	mathInstance object.Object
)

// NewMathInstance returns the Math singleton: an instance carrying the
// usual constants and numeric methods. Any non-number argument yields
// nil rather than an error.
func NewMathInstance() object.Object {
	mathOnce.Do(buildMathInstance)
	return mathInstance
}

// unaryMath wraps a one-argument math function.
func unaryMath(fn func(float64) float64) *object.NativeMethod {
	return object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
		if !args[0].IsNumber() {
			return object.Nil(), nil
		}
		return object.Number(fn(args[0].Number())), nil
	})
}

// spreadMath wraps a variadic reduction over numbers; any non-number
// argument yields nil.
func spreadMath(fn func(a, b float64) float64) *object.NativeMethod {
	return object.NewNativeMethod(-1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
		if len(args) == 0 {
			return object.Nil(), nil
		}
		for _, arg := range args {
			if !arg.IsNumber() {
				return object.Nil(), nil
			}
		}
		result := args[0].Number()
		for _, arg := range args[1:] {
			result = fn(result, arg.Number())
		}
		return object.Number(result), nil
	})
}

func buildMathInstance() {
	methods := map[string]object.Callable{
		"abs":   unaryMath(math.Abs),
		"round": unaryMath(math.Round),
		"floor": unaryMath(math.Floor),
		"ceil":  unaryMath(math.Ceil),
		"exp":   unaryMath(math.Exp),
		"sin":   unaryMath(math.Sin),
		"cos":   unaryMath(math.Cos),
		"tan":   unaryMath(math.Tan),
		"log":   unaryMath(math.Log),
		"log2":  unaryMath(math.Log2),

		"sqrt": object.NewNativeMethod(1, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			if !args[0].IsNumber() || args[0].Number() < 0 {
				return object.Nil(), nil
			}
			return object.Number(math.Sqrt(args[0].Number())), nil
		}),

		"pow": object.NewNativeMethod(2, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			if !args[0].IsNumber() || !args[1].IsNumber() {
				return object.Nil(), nil
			}
			return object.Number(math.Pow(args[0].Number(), args[1].Number())), nil
		}),

		"min": spreadMath(math.Min),
		"max": spreadMath(math.Max),

		"random": object.NewNativeMethod(0, 0, func(this *object.Instance, args []object.Object) (object.Object, error) {
			return object.Number(rand.Float64()), nil
		}),
	}

	class := object.NewNativeClass("Mathematics", methods, nil)
	inst := object.NewInstanceOf(class)
	inst.Fields["PI"] = object.Number(math.Pi)
	inst.Fields["E"] = object.Number(math.E)
	inst.Fields["LN2"] = object.Number(math.Ln2)
	inst.Fields["LN10"] = object.Number(math.Log(10))
	inst.Fields["LOG2E"] = object.Number(math.Log2E)
	inst.Fields["LOG10E"] = object.Number(math.Log10E)

	mathInstance = object.NewInstance(inst)
}
