// Package lexer implements the scanner that feeds pkg/compiler. Grace's
// design deliberately treats the scanner as an external collaborator (see
// the top-level spec): the compiler asks only that it produce an ordered
// sequence of tokens carrying type, text, line, column and length, so this
// implementation stays close to the mechanical character-at-a-time shape
// the rest of the corpus uses rather than growing its own feature set.
package lexer

import (
	"strings"

	"github.com/lgtm-migrator/grace/pkg/token"
)

// Lexer scans Grace source text one byte at a time.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token, advancing the lexer.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column

	var tok token.Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.make(token.EQ, "==", line, col)
		} else {
			tok = l.make(token.ASSIGN, "=", line, col)
		}
	case '+':
		tok = l.make(token.PLUS, "+", line, col)
	case '-':
		tok = l.make(token.MINUS, "-", line, col)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok = l.make(token.STARSTAR, "**", line, col)
		} else {
			tok = l.make(token.STAR, "*", line, col)
		}
	case '/':
		tok = l.make(token.SLASH, "/", line, col)
	case '%':
		tok = l.make(token.PERCENT, "%", line, col)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.make(token.NOT_EQ, "!=", line, col)
		} else {
			tok = l.make(token.BANG, "!", line, col)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.make(token.LTE, "<=", line, col)
		} else {
			tok = l.make(token.LT, "<", line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.make(token.GTE, ">=", line, col)
		} else {
			tok = l.make(token.GT, ">", line, col)
		}
	case ',':
		tok = l.make(token.COMMA, ",", line, col)
	case ':':
		tok = l.make(token.COLON, ":", line, col)
	case ';':
		tok = l.make(token.SEMICOLON, ";", line, col)
	case '(':
		tok = l.make(token.LPAREN, "(", line, col)
	case ')':
		tok = l.make(token.RPAREN, ")", line, col)
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			tok = l.make(token.DOTDOT, "..", line, col)
		} else {
			tok = l.make(token.DOT, ".", line, col)
		}
	case '"':
		return l.readStringToken(line, col)
	case '\'':
		return l.readCharToken(line, col)
	case 0:
		tok = token.Token{Type: token.EOF, Text: "", Line: line, Column: col, Length: 0}
		return tok
	default:
		if isLetter(l.ch) {
			return l.readIdentifierToken(line, col)
		}
		if isDigit(l.ch) {
			return l.readNumberToken(line, col)
		}
		tok = token.Token{
			Type: token.ILLEGAL, Text: string(l.ch), Line: line, Column: col, Length: 1,
			ErrMsg: "unexpected character '" + string(l.ch) + "'",
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) make(t token.Type, text string, line, col int) token.Token {
	return token.Token{Type: t, Text: text, Line: line, Column: col, Length: len(text)}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '\n':
			l.line++
			l.column = 0
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				if l.ch == '\n' {
					l.line++
					l.column = 0
				}
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifierToken(line, col int) token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(text), Text: text, Line: line, Column: col, Length: len(text)}
}

func (l *Lexer) readNumberToken(line, col int) token.Token {
	start := l.position
	typ := token.INT
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && l.peekChar() != '.' && isDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	text := l.input[start:l.position]
	return token.Token{Type: typ, Text: text, Line: line, Column: col, Length: len(text)}
}

var escapeChars = map[byte]byte{
	't': '\t', 'b': '\b', 'n': '\n', 'r': '\r', 'f': '\f',
	'\'': '\'', '"': '"', '\\': '\\',
}

func (l *Lexer) readStringToken(line, col int) token.Token {
	l.readChar() // consume opening quote
	var out strings.Builder
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			if esc, ok := escapeChars[l.ch]; ok {
				out.WriteByte(esc)
			} else {
				return token.Token{
					Type: token.ILLEGAL, Text: string(l.ch), Line: line, Column: col, Length: 1,
					ErrMsg: "unrecognised escape character",
				}
			}
			l.readChar()
			continue
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	text := out.String()
	return token.Token{Type: token.STRING, Text: text, Line: line, Column: col, Length: len(text) + 2}
}

func (l *Lexer) readCharToken(line, col int) token.Token {
	l.readChar() // consume opening quote
	var value byte
	if l.ch == '\\' {
		l.readChar()
		esc, ok := escapeChars[l.ch]
		if !ok {
			return token.Token{
				Type: token.ILLEGAL, Text: string(l.ch), Line: line, Column: col, Length: 1,
				ErrMsg: "unrecognised escape character",
			}
		}
		value = esc
		l.readChar()
	} else {
		value = l.ch
		l.readChar()
	}
	if l.ch != '\'' {
		return token.Token{
			Type: token.ILLEGAL, Text: string(value), Line: line, Column: col, Length: 1,
			ErrMsg: "char literal must contain a single character or escape character",
		}
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.CHAR, Text: string(value), Line: line, Column: col, Length: 3}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
