package lexer

import (
	"strings"
	"testing"

	"github.com/Morphlng/cploxplox/internal/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	tokens, err := New("test.lox", src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	types := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestScanBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Type
	}{
		{"+", []token.Type{token.PLUS, token.EOF}},
		{"+=", []token.Type{token.PLUS_EQ, token.EOF}},
		{"++", []token.Type{token.PLUS_PLUS, token.EOF}},
		{"-", []token.Type{token.MINUS, token.EOF}},
		{"-=", []token.Type{token.MINUS_EQ, token.EOF}},
		{"--", []token.Type{token.MINUS_MIN, token.EOF}},
		{"*", []token.Type{token.STAR, token.EOF}},
		{"*=", []token.Type{token.STAR_EQ, token.EOF}},
		{"/", []token.Type{token.SLASH, token.EOF}},
		{"/=", []token.Type{token.SLASH_EQ, token.EOF}},
		{"%", []token.Type{token.PERCENT, token.EOF}},
		{"!", []token.Type{token.BANG, token.EOF}},
		{"!=", []token.Type{token.BANG_EQ, token.EOF}},
		{"=", []token.Type{token.EQ, token.EOF}},
		{"==", []token.Type{token.EQ_EQ, token.EOF}},
		{">", []token.Type{token.GT, token.EOF}},
		{">=", []token.Type{token.GT_EQ, token.EOF}},
		{"<", []token.Type{token.LT, token.EOF}},
		{"<=", []token.Type{token.LT_EQ, token.EOF}},
		{"(", []token.Type{token.LPAREN, token.EOF}},
		{")", []token.Type{token.RPAREN, token.EOF}},
		{"{", []token.Type{token.LBRACE, token.EOF}},
		{"}", []token.Type{token.RBRACE, token.EOF}},
		{"[", []token.Type{token.LBRACKET, token.EOF}},
		{"]", []token.Type{token.RBRACKET, token.EOF}},
		{",", []token.Type{token.COMMA, token.EOF}},
		{".", []token.Type{token.DOT, token.EOF}},
		{":", []token.Type{token.COLON, token.EOF}},
		{";", []token.Type{token.SEMICOLON, token.EOF}},
		{"?", []token.Type{token.QUESTION, token.EOF}},
		{"", []token.Type{token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := scanTypes(t, tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("token count: expected %d, got %d", len(tt.expected), len(got))
			}
			for i, exp := range tt.expected {
				if got[i] != exp {
					t.Errorf("token[%d]: expected %v, got %v", i, exp, got[i])
				}
			}
		})
	}
}

func TestScanKeywords(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Type
	}{
		{"nil", token.NIL},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"var", token.VAR},
		{"class", token.CLASS},
		{"this", token.THIS},
		{"super", token.SUPER},
		{"if", token.IF},
		{"else", token.ELSE},
		{"for", token.FOR},
		{"while", token.WHILE},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"func", token.FUNC},
		{"return", token.RETURN},
		{"and", token.AND},
		{"or", token.OR},
		{"import", token.IMPORT},
		{"as", token.AS},
		{"from", token.FROM},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := New("", tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("expected lexeme %q, got %q", tt.input, tokens[0].Lexeme)
			}
		})
	}
}

func TestScanIdentifiers(t *testing.T) {
	tests := []string{"x", "foo_bar", "_private", "name2", "Class1"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, err := New("", input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if tokens[0].Type != token.IDENTIFIER {
				t.Errorf("expected IDENTIFIER, got %v", tokens[0].Type)
			}
			if tokens[0].Lexeme != input {
				t.Errorf("expected lexeme %q, got %q", input, tokens[0].Lexeme)
			}
		})
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"0", "0"},
		{"0x1F", "0x1F"},
		{"0b1011", "0b1011"},
		{"123.456", "123.456"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := New("", tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if tokens[0].Type != token.NUMBER {
				t.Fatalf("expected NUMBER, got %v", tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.lexeme {
				t.Errorf("expected lexeme %q, got %q", tt.lexeme, tokens[0].Lexeme)
			}
		})
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"\x"`, "x"}, // unknown escape yields the character itself
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := New("", tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if tokens[0].Type != token.STRING {
				t.Fatalf("expected STRING, got %v", tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tokens[0].Lexeme)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := New("test.lox", `"oops`).Tokenize()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if _, ok := err.(*ExpectCharError); !ok {
		t.Errorf("expected *ExpectCharError, got %T", err)
	}
}

func TestIllegalChar(t *testing.T) {
	_, err := New("test.lox", "var x = 1; @").Tokenize()
	if err == nil {
		t.Fatal("expected error for illegal character")
	}
	illegal, ok := err.(*IllegalCharError)
	if !ok {
		t.Fatalf("expected *IllegalCharError, got %T", err)
	}
	if illegal.Start.Line != 1 || illegal.Start.Column != 12 {
		t.Errorf("expected position 1:12, got %d:%d", illegal.Start.Line, illegal.Start.Column)
	}
}

func TestComments(t *testing.T) {
	got := scanTypes(t, "var x; # a comment\nvar y;")
	expected := []token.Type{
		token.VAR, token.IDENTIFIER, token.SEMICOLON,
		token.VAR, token.IDENTIFIER, token.SEMICOLON,
		token.EOF,
	}
	if len(got) != len(expected) {
		t.Fatalf("token count: expected %d, got %d", len(expected), len(got))
	}
	for i, exp := range expected {
		if got[i] != exp {
			t.Errorf("token[%d]: expected %v, got %v", i, exp, got[i])
		}
	}
}

func TestPositions(t *testing.T) {
	tokens, err := New("test.lox", "var x;\nvar y;").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	// second `var` starts at line 2, column 1
	if tokens[3].Start.Line != 2 || tokens[3].Start.Column != 1 {
		t.Errorf("expected 2:1, got %d:%d", tokens[3].Start.Line, tokens[3].Start.Column)
	}
	if tokens[3].Start.Filename != "test.lox" {
		t.Errorf("expected filename to carry through, got %q", tokens[3].Start.Filename)
	}
}

// Relexing the joined lexemes must produce the same token sequence
// modulo whitespace.
func TestRelexRoundTrip(t *testing.T) {
	src := `var x = 1 + 2 * 3 ; func f ( a , b ) { return a >= b ? a : b ; }`
	first, err := New("", src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	var lexemes []string
	for _, tok := range first {
		if tok.Type == token.EOF {
			break
		}
		lexemes = append(lexemes, tok.Lexeme)
	}

	second, err := New("", strings.Join(lexemes, " ")).Tokenize()
	if err != nil {
		t.Fatalf("re-lex failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("token count: first %d, second %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type {
			t.Errorf("token[%d]: %v != %v", i, first[i].Type, second[i].Type)
		}
	}
}
