package object

import "strings"

// Operator semantics over Object. Instances participate through the
// reserved overloading methods; when only the right operand is an
// instance the operands swap and the operation retries, for every
// arithmetic operator. The swap is kept even for the non-commutative
// ones to match the reference behavior.

// callOverload invokes the reserved method name on the instance with
// rhs as its single argument.
func callOverload(inst *Instance, name string, rhs Object) (Object, error) {
	fn := inst.Get(name)
	if fn.IsNil() {
		return Nil(), runtimeErrorf("%s does not have overloading function %s(other)",
			inst.Belonging.ClassName, name)
	}
	return fn.Callable().Call([]Object{rhs})
}

// Add implements +: num+num, str+str, or __add__ on an instance.
func Add(lhs, rhs Object) (Object, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		return Number(lhs.Number() + rhs.Number()), nil
	case lhs.IsString() && rhs.IsString():
		return Str(lhs.Str() + rhs.Str()), nil
	case lhs.IsInstance():
		return callOverload(lhs.Instance(), "__add__", rhs)
	case rhs.IsInstance():
		return Add(rhs, lhs)
	default:
		return Nil(), illegalBinary("+", lhs, rhs)
	}
}

// Sub implements -: num-num or __sub__ on an instance.
func Sub(lhs, rhs Object) (Object, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		return Number(lhs.Number() - rhs.Number()), nil
	case lhs.IsInstance():
		return callOverload(lhs.Instance(), "__sub__", rhs)
	case rhs.IsInstance():
		return Sub(rhs, lhs)
	default:
		return Nil(), illegalBinary("-", lhs, rhs)
	}
}

// Mul implements *: num*num, string repetition with a numeric count,
// or __mul__ on an instance. Negative repeat counts clamp to zero.
func Mul(lhs, rhs Object) (Object, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		return Number(lhs.Number() * rhs.Number()), nil
	case lhs.IsNumber() && rhs.IsString(), lhs.IsString() && rhs.IsNumber():
		origin := lhs.Str()
		times := int(rhs.Number())
		if lhs.IsNumber() {
			origin = rhs.Str()
			times = int(lhs.Number())
		}
		if times < 0 {
			times = 0
		}
		return Str(strings.Repeat(origin, times)), nil
	case lhs.IsInstance():
		return callOverload(lhs.Instance(), "__mul__", rhs)
	case rhs.IsInstance():
		return Mul(rhs, lhs)
	default:
		return Nil(), illegalBinary("*", lhs, rhs)
	}
}

// Div implements /: num/num (zero divisor errors) or __div__ on an
// instance.
func Div(lhs, rhs Object) (Object, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		if rhs.Number() == 0 {
			return Nil(), runtimeErrorf("Divided by 0!")
		}
		return Number(lhs.Number() / rhs.Number()), nil
	case lhs.IsInstance():
		return callOverload(lhs.Instance(), "__div__", rhs)
	case rhs.IsInstance():
		return Div(rhs, lhs)
	default:
		return Nil(), illegalBinary("/", lhs, rhs)
	}
}

// Mod implements %: both operands coerce to integer, or __mod__ on an
// instance.
func Mod(lhs, rhs Object) (Object, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		left, right := int64(lhs.Number()), int64(rhs.Number())
		if right == 0 {
			return Nil(), runtimeErrorf("Divided by 0!")
		}
		return Number(float64(left % right)), nil
	case lhs.IsInstance():
		return callOverload(lhs.Instance(), "__mod__", rhs)
	case rhs.IsInstance():
		return Mod(rhs, lhs)
	default:
		return Nil(), illegalBinary("%", lhs, rhs)
	}
}

// Equal implements ==. Different kinds are never equal; instances
// consult __equal__ on the left operand (identity when absent);
// callables and containers compare by identity.
func Equal(lhs, rhs Object) (bool, error) {
	if lhs.Type != rhs.Type {
		return false, nil
	}

	switch lhs.Type {
	case NIL:
		return true, nil
	case BOOL:
		return lhs.Bool() == rhs.Bool(), nil
	case NUMBER:
		return lhs.Number() == rhs.Number(), nil
	case STRING:
		return lhs.Str() == rhs.Str(), nil
	case CALLABLE:
		return lhs.callable == rhs.callable, nil
	case INSTANCE:
		// Same-class comparison is up to the user's __equal__;
		// without one, instances compare by identity.
		fn := lhs.Instance().Get("__equal__")
		if fn.IsNil() {
			return lhs.instance == rhs.instance, nil
		}
		result, err := fn.Callable().Call([]Object{rhs})
		if err != nil {
			return false, err
		}
		return result.Bool(), nil
	case CONTAINER:
		return lhs.container == rhs.container, nil
	default:
		return false, nil
	}
}

// Greater implements >: numbers or strings only.
func Greater(lhs, rhs Object) (bool, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		return lhs.Number() > rhs.Number(), nil
	case lhs.IsString() && rhs.IsString():
		return lhs.Str() > rhs.Str(), nil
	default:
		return false, illegalBinary(">", lhs, rhs)
	}
}

// GreaterEqual implements >=.
func GreaterEqual(lhs, rhs Object) (bool, error) {
	gt, err := Greater(lhs, rhs)
	if err != nil {
		return false, err
	}
	if gt {
		return true, nil
	}
	return Equal(lhs, rhs)
}

// Less implements <: numbers or strings only.
func Less(lhs, rhs Object) (bool, error) {
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		return lhs.Number() < rhs.Number(), nil
	case lhs.IsString() && rhs.IsString():
		return lhs.Str() < rhs.Str(), nil
	default:
		return false, illegalBinary("<", lhs, rhs)
	}
}

// LessEqual implements <=.
func LessEqual(lhs, rhs Object) (bool, error) {
	lt, err := Less(lhs, rhs)
	if err != nil {
		return false, err
	}
	if lt {
		return true, nil
	}
	return Equal(lhs, rhs)
}

// Negate implements unary -: numbers only.
func Negate(o Object) (Object, error) {
	if o.IsNumber() {
		return Number(-o.Number()), nil
	}
	return Nil(), runtimeErrorf("Illegal operator '-' for operand type(%s)", TypeName(o.Type))
}

// Not implements !: booleans and numbers only.
func Not(o Object) (Object, error) {
	if o.IsBool() || o.IsNumber() {
		return Bool(!o.IsTrue()), nil
	}
	return Nil(), runtimeErrorf("Illegal operator '!' for operand type(%s)", TypeName(o.Type))
}

func illegalBinary(op string, lhs, rhs Object) *RuntimeError {
	return runtimeErrorf("Illegal operator '%s' for operands type(%s) and type(%s)",
		op, TypeName(lhs.Type), TypeName(rhs.Type))
}
