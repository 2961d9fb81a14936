package lexer

import (
	"testing"

	"github.com/lgtm-migrator/grace/pkg/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `func add(x, final y):
	return x + y**2;
end
`

	tests := []struct {
		expectedType token.Type
		expectedText string
	}{
		{token.FUNC, "func"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.FINAL, "final"},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.STARSTAR, "**"},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.END, "end"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%q, got=%q (text=%q)", i, tt.expectedType, tok.Type, tok.Text)
		}
		if tok.Text != tt.expectedText {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.expectedText, tok.Text)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	l := New("1 2.5 10 0.1")
	want := []struct {
		typ  token.Type
		text string
	}{
		{token.INT, "1"},
		{token.FLOAT, "2.5"},
		{token.INT, "10"},
		{token.FLOAT, "0.1"},
		{token.EOF, ""},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Text != w.text {
			t.Fatalf("case %d: expected %s(%q), got %s(%q)", i, w.typ, w.text, tok.Type, tok.Text)
		}
	}
}

func TestRangeVsFloatDot(t *testing.T) {
	l := New("1..10")
	tok := l.NextToken()
	if tok.Type != token.INT || tok.Text != "1" {
		t.Fatalf("expected INT 1, got %s %q", tok.Type, tok.Text)
	}
	tok = l.NextToken()
	if tok.Type != token.DOTDOT {
		t.Fatalf("expected DOTDOT, got %s", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.INT || tok.Text != "10" {
		t.Fatalf("expected INT 10, got %s %q", tok.Type, tok.Text)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\tb\nc\"d"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	want := "a\tb\nc\"d"
	if tok.Text != want {
		t.Fatalf("expected %q, got %q", want, tok.Text)
	}
}

func TestCharLiteral(t *testing.T) {
	l := New(`'x' '\n'`)
	tok := l.NextToken()
	if tok.Type != token.CHAR || tok.Text != "x" {
		t.Fatalf("expected CHAR 'x', got %s %q", tok.Type, tok.Text)
	}
	tok = l.NextToken()
	if tok.Type != token.CHAR || tok.Text != "\n" {
		t.Fatalf("expected CHAR newline, got %s %q", tok.Type, tok.Text)
	}
}

func TestComments(t *testing.T) {
	input := `// line comment
var x = 1; /* block
comment */ var y = 2;`
	l := New(input)
	types := []token.Type{
		token.VAR, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.VAR, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.EOF,
	}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("case %d: expected %s, got %s (%q)", i, want, tok.Type, tok.Text)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "var x = 1;\nvar y = 2;"
	l := New(input)
	l.NextToken() // var
	tok := l.NextToken() // x
	if tok.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Line)
	}
	if tok.Column != 5 {
		t.Fatalf("expected x at column 5, got %d", tok.Column)
	}
	for {
		tok = l.NextToken()
		if tok.Type == token.VAR {
			break
		}
		if tok.Type == token.EOF {
			t.Fatal("did not find second var")
		}
	}
	if tok.Line != 2 {
		t.Fatalf("expected second var on line 2, got %d", tok.Line)
	}
}

func TestTypeIdentsAndInstanceof(t *testing.T) {
	l := New("instanceof(x, Int) Float String Bool Char")
	types := []token.Type{
		token.INSTANCEOF, token.LPAREN, token.IDENT, token.COMMA, token.INT_IDENT, token.RPAREN,
		token.FLOAT_IDENT, token.STRING_IDENT, token.BOOL_IDENT, token.CHAR_IDENT, token.EOF,
	}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("case %d: expected %s, got %s (%q)", i, want, tok.Type, tok.Text)
		}
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if tok.ErrMsg == "" {
		t.Fatal("expected ErrMsg to be set on illegal token")
	}
}
