package object

import (
	"testing"

	"github.com/Morphlng/cploxplox/internal/token"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		lexeme string
		want   float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"0", 0},
		{"0x1F", 31},
		{"0xff", 255},
		{"0b1011", 11},
		{"0b0", 0},
		{"123.456", 123.456},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			got, err := ParseNumber(tt.lexeme)
			if err != nil {
				t.Fatalf("ParseNumber(%q) failed: %v", tt.lexeme, err)
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.lexeme, got, tt.want)
			}
		})
	}
}

// Integer literals display in integer form: str(parse(s)) == s.
func TestIntegerDisplayRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "42", "1000000", "123456789"} {
		n, err := ParseNumber(s)
		if err != nil {
			t.Fatalf("ParseNumber(%q) failed: %v", s, err)
		}
		if got := Number(n).String(); got != s {
			t.Errorf("round trip: %q -> %q", s, got)
		}
	}
}

func TestFromLiteral(t *testing.T) {
	tests := []struct {
		typ  token.Type
		lex  string
		want Object
	}{
		{token.NUMBER, "7", Number(7)},
		{token.STRING, "hi", Str("hi")},
		{token.TRUE, "true", Bool(true)},
		{token.FALSE, "false", Bool(false)},
		{token.NIL, "nil", Nil()},
	}

	for _, tt := range tests {
		t.Run(tt.lex, func(t *testing.T) {
			got, err := FromLiteral(token.Token{Type: tt.typ, Lexeme: tt.lex})
			if err != nil {
				t.Fatalf("FromLiteral failed: %v", err)
			}
			eq, err := Equal(got, tt.want)
			if err != nil || !eq {
				t.Errorf("FromLiteral(%s) = %v, want %v", tt.lex, got, tt.want)
			}
		})
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		obj  Object
		want bool
	}{
		{Bool(true), true},
		{Bool(false), false},
		{Nil(), false},
		{Number(1), true},
		{Number(0), false},
		{Number(-1), false}, // numbers <= 0 are false
		{Number(0.5), true},
		{Str(""), true}, // every string is true
		{Str("x"), true},
	}

	for _, tt := range tests {
		if got := tt.obj.IsTrue(); got != tt.want {
			t.Errorf("IsTrue(%s) = %v, want %v", tt.obj, got, tt.want)
		}
	}
}

// !!x must agree with x.IsTrue() for operands ! accepts.
func TestNotConsistent(t *testing.T) {
	for _, obj := range []Object{Bool(true), Bool(false), Number(3), Number(0), Number(-2)} {
		once, err := Not(obj)
		if err != nil {
			t.Fatalf("Not(%s) failed: %v", obj, err)
		}
		twice, err := Not(once)
		if err != nil {
			t.Fatalf("Not(Not(%s)) failed: %v", obj, err)
		}
		if twice.Bool() != obj.IsTrue() {
			t.Errorf("!!%s = %v, IsTrue = %v", obj, twice.Bool(), obj.IsTrue())
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(3), "3"},
		{Number(2.5), "2.500000"},
		{Str("hey"), "hey"},
	}

	for _, tt := range tests {
		if got := tt.obj.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
