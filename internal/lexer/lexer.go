// Package lexer provides Lox source code tokenization.
package lexer

import (
	"github.com/Morphlng/cploxplox/internal/token"
)

// Lexer tokenizes Lox source code.
type Lexer struct {
	src []byte         // Source code
	ch  byte           // Current character (0 at EOF)
	pos token.Position // Position of current character

	tokens []token.Token
}

// New creates a new Lexer for the given file name and source text.
func New(filename, src string) *Lexer {
	l := &Lexer{
		src: []byte(src),
		pos: token.NewPosition(filename, src),
	}
	if len(l.src) > 0 {
		l.ch = l.src[0]
	}
	return l
}

// Tokenize scans the whole input and returns the token stream
// terminated by an EOF token. The first lexical error stops the scan.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for l.ch != 0 {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.next()

		case '#':
			l.skipComment()

		case '(':
			l.emit(token.LPAREN, "(")
		case ')':
			l.emit(token.RPAREN, ")")
		case '{':
			l.emit(token.LBRACE, "{")
		case '}':
			l.emit(token.RBRACE, "}")
		case '[':
			l.emit(token.LBRACKET, "[")
		case ']':
			l.emit(token.RBRACKET, "]")
		case ',':
			l.emit(token.COMMA, ",")
		case '.':
			l.emit(token.DOT, ".")
		case ':':
			l.emit(token.COLON, ":")
		case ';':
			l.emit(token.SEMICOLON, ";")
		case '%':
			l.emit(token.PERCENT, "%")
		case '?':
			l.emit(token.QUESTION, "?")

		case '+':
			l.scanPlus()
		case '-':
			l.scanMinus()
		case '*':
			l.twoChar('=', token.STAR_EQ, "*=", token.STAR, "*")
		case '/':
			l.twoChar('=', token.SLASH_EQ, "/=", token.SLASH, "/")
		case '!':
			l.twoChar('=', token.BANG_EQ, "!=", token.BANG, "!")
		case '=':
			l.twoChar('=', token.EQ_EQ, "==", token.EQ, "=")
		case '<':
			l.twoChar('=', token.LT_EQ, "<=", token.LT, "<")
		case '>':
			l.twoChar('=', token.GT_EQ, ">=", token.GT, ">")

		case '"':
			if err := l.scanString(); err != nil {
				return l.tokens, err
			}

		default:
			switch {
			case isDigit(l.ch):
				l.scanNumber()
			case isIdentStart(l.ch):
				l.scanIdent()
			default:
				start := l.pos
				l.next()
				return l.tokens, &IllegalCharError{
					Start:   start,
					End:     l.pos,
					Message: "Cannot tokenize this character",
				}
			}
		}
	}

	l.tokens = append(l.tokens, token.Token{Type: token.EOF, Start: l.pos, End: l.pos})
	return l.tokens, nil
}

// emit appends a single-character token and advances past it.
func (l *Lexer) emit(typ token.Type, lexeme string) {
	start := l.pos
	l.next()
	l.tokens = append(l.tokens, token.Token{Type: typ, Lexeme: lexeme, Start: start, End: l.pos})
}

// twoChar appends a two-character token when the next byte matches
// expect, otherwise the one-character fallback.
func (l *Lexer) twoChar(expect byte, long token.Type, longLexeme string, short token.Type, shortLexeme string) {
	start := l.pos
	l.next()
	if l.ch == expect {
		l.next()
		l.tokens = append(l.tokens, token.Token{Type: long, Lexeme: longLexeme, Start: start, End: l.pos})
		return
	}
	l.tokens = append(l.tokens, token.Token{Type: short, Lexeme: shortLexeme, Start: start, End: l.pos})
}

func (l *Lexer) scanPlus() {
	start := l.pos
	l.next()
	switch l.ch {
	case '+':
		l.next()
		l.tokens = append(l.tokens, token.Token{Type: token.PLUS_PLUS, Lexeme: "++", Start: start, End: l.pos})
	case '=':
		l.next()
		l.tokens = append(l.tokens, token.Token{Type: token.PLUS_EQ, Lexeme: "+=", Start: start, End: l.pos})
	default:
		l.tokens = append(l.tokens, token.Token{Type: token.PLUS, Lexeme: "+", Start: start, End: l.pos})
	}
}

func (l *Lexer) scanMinus() {
	start := l.pos
	l.next()
	switch l.ch {
	case '-':
		l.next()
		l.tokens = append(l.tokens, token.Token{Type: token.MINUS_MIN, Lexeme: "--", Start: start, End: l.pos})
	case '=':
		l.next()
		l.tokens = append(l.tokens, token.Token{Type: token.MINUS_EQ, Lexeme: "-=", Start: start, End: l.pos})
	default:
		l.tokens = append(l.tokens, token.Token{Type: token.MINUS, Lexeme: "-", Start: start, End: l.pos})
	}
}

// scanString scans a double-quoted string literal.
// Recognized escapes: \n and \t; any other \x yields x.
func (l *Lexer) scanString() error {
	start := l.pos
	l.next() // consume opening quote

	var sb []byte
	for l.ch != 0 && l.ch != '"' {
		if l.ch == '\\' {
			l.next()
			switch l.ch {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case 0:
				continue
			default:
				sb = append(sb, l.ch)
			}
			l.next()
		} else {
			sb = append(sb, l.ch)
			l.next()
		}
	}

	if l.ch != '"' {
		return &ExpectCharError{
			Start:   start,
			End:     l.pos,
			Message: `'"' at the end of a string`,
		}
	}
	l.next() // consume closing quote

	l.tokens = append(l.tokens, token.Token{Type: token.STRING, Lexeme: string(sb), Start: start, End: l.pos})
	return nil
}

// scanNumber accumulates the raw lexeme of a numeric literal.
// Decimal digits with an optional fraction, or 0x.. / 0b.. after a
// leading zero. Conversion to a value happens later in the object layer.
func (l *Lexer) scanNumber() {
	start := l.pos

	for isDigit(l.ch) {
		l.next()
	}

	switch l.ch {
	case '.':
		l.next()
		for isDigit(l.ch) {
			l.next()
		}
	case 'x':
		l.next()
		for isHexDigit(l.ch) {
			l.next()
		}
	case 'b':
		l.next()
		for l.ch == '0' || l.ch == '1' {
			l.next()
		}
	}

	lexeme := string(l.src[start.Offset:l.pos.Offset])
	l.tokens = append(l.tokens, token.Token{Type: token.NUMBER, Lexeme: lexeme, Start: start, End: l.pos})
}

func (l *Lexer) scanIdent() {
	start := l.pos
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := string(l.src[start.Offset:l.pos.Offset])
	l.tokens = append(l.tokens, token.Token{Type: token.LookupIdent(name), Lexeme: name, Start: start, End: l.pos})
}

func (l *Lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.next()
	}
}

func (l *Lexer) next() {
	if l.pos.Offset >= len(l.src) {
		l.ch = 0
		return
	}
	l.pos.Advance(l.ch)
	if l.pos.Offset < len(l.src) {
		l.ch = l.src[l.pos.Offset]
	} else {
		l.ch = 0
	}
}

// Helper functions

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
