package object

import (
	"strings"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Object) (Object, error)
		a, b Object
		want Object
	}{
		{"num add", Add, Number(1), Number(2), Number(3)},
		{"str concat", Add, Str("a"), Str("b"), Str("ab")},
		{"num sub", Sub, Number(5), Number(3), Number(2)},
		{"num mul", Mul, Number(4), Number(2.5), Number(10)},
		{"str repeat right", Mul, Str("ab"), Number(3), Str("ababab")},
		{"str repeat left", Mul, Number(2), Str("xy"), Str("xyxy")},
		{"str repeat negative clamps", Mul, Str("ab"), Number(-1), Str("")},
		{"num div", Div, Number(7), Number(2), Number(3.5)},
		{"mod coerces to int", Mod, Number(7.9), Number(3.2), Number(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			eq, _ := Equal(got, tt.want)
			if !eq {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Object) (Object, error)
		a, b Object
		want string
	}{
		{"add mismatched", Add, Number(1), Str("x"), "Illegal operator '+'"},
		{"sub string", Sub, Str("a"), Str("b"), "Illegal operator '-'"},
		{"divide by zero", Div, Number(1), Number(0), "Divided by 0!"},
		{"nil add", Add, Nil(), Nil(), "Illegal operator '+'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op(tt.a, tt.b)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	fn := NewNativeFunction("f", 0, 0, func(args []Object) (Object, error) {
		return Nil(), nil
	})
	other := NewNativeFunction("f", 0, 0, func(args []Object) (Object, error) {
		return Nil(), nil
	})

	tests := []struct {
		name string
		a, b Object
		want bool
	}{
		{"nil eq nil", Nil(), Nil(), true},
		{"bools", Bool(true), Bool(true), true},
		{"numbers", Number(2), Number(2), true},
		{"numbers differ", Number(2), Number(3), false},
		{"strings", Str("a"), Str("a"), true},
		{"kind mismatch", Number(1), Str("1"), false},
		{"same callable", NewCallable(fn), NewCallable(fn), true},
		{"different callables", NewCallable(fn), NewCallable(other), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	gt, err := Greater(Number(2), Number(1))
	if err != nil || !gt {
		t.Error("2 > 1 should hold")
	}
	lt, err := Less(Str("a"), Str("b"))
	if err != nil || !lt {
		t.Error(`"a" < "b" should hold`)
	}
	ge, err := GreaterEqual(Number(2), Number(2))
	if err != nil || !ge {
		t.Error("2 >= 2 should hold")
	}
	if _, err := Greater(Number(1), Str("a")); err == nil {
		t.Error("comparing number to string should fail")
	}
	if _, err := Less(Nil(), Nil()); err == nil {
		t.Error("comparing nils should fail")
	}
}

func TestUnary(t *testing.T) {
	neg, err := Negate(Number(3))
	if err != nil || neg.Number() != -3 {
		t.Error("negate failed")
	}
	if _, err := Negate(Str("x")); err == nil {
		t.Error("negating a string should fail")
	}
	if _, err := Not(Str("x")); err == nil {
		t.Error("! on a string should fail")
	}
}

// Overloading: instances dispatch through reserved methods, and the
// operand swap retries when only the right side is an instance.
func TestInstanceOverloading(t *testing.T) {
	class := NewClass("V", map[string]Callable{}, nil)
	class.Methods["__add__"] = NewNativeMethod(1, 0, func(this *Instance, args []Object) (Object, error) {
		sum := this.Get("x").Number() + args[0].Number()
		return Number(sum), nil
	})
	class.Methods["__equal__"] = NewNativeMethod(1, 0, func(this *Instance, args []Object) (Object, error) {
		return Bool(this.Get("x").Number() == args[0].Instance().Get("x").Number()), nil
	})

	a := NewInstanceOf(class)
	a.Set("x", Number(1))

	got, err := Add(NewInstance(a), Number(2))
	if err != nil {
		t.Fatalf("overloaded add failed: %v", err)
	}
	if got.Number() != 3 {
		t.Errorf("got %v, want 3", got.Number())
	}

	// swap: number + instance retries as instance + number
	got, err = Add(Number(4), NewInstance(a))
	if err != nil {
		t.Fatalf("swapped add failed: %v", err)
	}
	if got.Number() != 5 {
		t.Errorf("got %v, want 5", got.Number())
	}

	b := NewInstanceOf(class)
	b.Set("x", Number(1))
	eq, err := Equal(NewInstance(a), NewInstance(b))
	if err != nil {
		t.Fatalf("overloaded equal failed: %v", err)
	}
	if !eq {
		t.Error("instances with equal x should compare equal via __equal__")
	}
}

func TestMissingOverloadErrors(t *testing.T) {
	class := NewClass("P", map[string]Callable{}, nil)
	inst := NewInstance(NewInstanceOf(class))

	_, err := Sub(inst, Number(1))
	if err == nil {
		t.Fatal("expected error for missing __sub__")
	}
	if !strings.Contains(err.Error(), "__sub__") {
		t.Errorf("unexpected error: %v", err)
	}
}
