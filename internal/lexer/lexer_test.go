package lexer

import (
	"errors"
	"murlang/internal/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `grrr x = 10
mrglif (x >= 5) mrgl glglrr "big" grl
// comment at line start
grrrfnrrg add(a, b) mrgl grrrtn a + b grl // trailing comment
arr[0] != 3.25; !mrglyes && mrglno || x <= 2 % 1
Murloc{name: "G", level: 3}.name
mrglspawn t1 mrgl grl
mrglwait t1, t2
mrglgl mrgl grl mrglurp (e) mrgl grl
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAR, "grrr"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "10"},
		{token.IF, "mrglif"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.GT_EQ, ">="},
		{token.NUMBER, "5"},
		{token.RPAREN, ")"},
		{token.BEGIN, "mrgl"},
		{token.PRINT, "glglrr"},
		{token.STRING, "big"},
		{token.END, "grl"},
		{token.FUNCTION, "grrrfnrrg"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.BEGIN, "mrgl"},
		{token.RETURN, "grrrtn"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.END, "grl"},
		{token.IDENT, "arr"},
		{token.LBRACKET, "["},
		{token.NUMBER, "0"},
		{token.RBRACKET, "]"},
		{token.NOT_EQ, "!="},
		{token.NUMBER, "3.25"},
		{token.SEMICOLON, ";"},
		{token.BANG, "!"},
		{token.TRUE, "mrglyes"},
		{token.LOGICAL_AND, "&&"},
		{token.FALSE, "mrglno"},
		{token.LOGICAL_OR, "||"},
		{token.IDENT, "x"},
		{token.LT_EQ, "<="},
		{token.NUMBER, "2"},
		{token.PERCENT, "%"},
		{token.NUMBER, "1"},
		{token.IDENT, "Murloc"},
		{token.LBRACE, "{"},
		{token.IDENT, "name"},
		{token.COLON, ":"},
		{token.STRING, "G"},
		{token.COMMA, ","},
		{token.IDENT, "level"},
		{token.COLON, ":"},
		{token.NUMBER, "3"},
		{token.RBRACE, "}"},
		{token.PERIOD, "."},
		{token.IDENT, "name"},
		{token.SPAWN, "mrglspawn"},
		{token.IDENT, "t1"},
		{token.BEGIN, "mrgl"},
		{token.END, "grl"},
		{token.WAIT, "mrglwait"},
		{token.IDENT, "t1"},
		{token.COMMA, ","},
		{token.IDENT, "t2"},
		{token.TRY, "mrglgl"},
		{token.BEGIN, "mrgl"},
		{token.END, "grl"},
		{token.CATCH, "mrglurp"},
		{token.LPAREN, "("},
		{token.IDENT, "e"},
		{token.RPAREN, ")"},
		{token.BEGIN, "mrgl"},
		{token.END, "grl"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
	require.NoError(t, l.Err())
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	tokens, err := Tokenize("Grrr grrrx grrr _grrr")
	require.NoError(t, err)

	kinds := make([]token.TokenType, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, []token.TokenType{token.IDENT, token.IDENT, token.VAR, token.IDENT, token.EOF}, kinds)
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("grrr x = 1\n  glglrr x")
	require.NoError(t, err)

	tests := []struct {
		literal string
		line    int
		column  int
	}{
		{"grrr", 1, 1},
		{"x", 1, 6},
		{"=", 1, 8},
		{"1", 1, 10},
		{"glglrr", 2, 3},
		{"x", 2, 10},
	}
	for i, tt := range tests {
		tok := tokens[i]
		assert.Equal(t, tt.literal, tok.Literal, "tests[%d]", i)
		assert.Equal(t, tt.line, tok.Pos.Line, "tests[%d] line", i)
		assert.Equal(t, tt.column, tok.Pos.Column, "tests[%d] column", i)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`""`, ""},
		{`"mrgl mrgl"`, "mrgl mrgl"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"line\nbreak"`, "line\nbreak"},
		{`"tab\there"`, "tab\there"},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		require.NoError(t, err, tt.input)
		require.Len(t, tokens, 2)
		assert.Equal(t, token.TokenType(token.STRING), tokens[0].Type)
		assert.Equal(t, tt.expected, tokens[0].Literal)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input  string
		char   rune
		line   int
		column int
	}{
		{"grrr x = 1 @", '@', 1, 12},
		{"grrr x = 1 & 2", '&', 1, 12},
		{"grrr x = 1 | 2", '|', 1, 12},
		{"grrr x = 1\n\"never closed", '"', 2, 1},
		{"#", '#', 1, 1},
		{"glglrr 1\x00glglrr 2 $$$", 0, 1, 9},
		{"glglrr \"a\x00b\"", 0, 1, 10},
		{"glglrr \"open\\", '"', 1, 8},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		require.Error(t, err, tt.input)

		var lexErr *LexError
		require.True(t, errors.As(err, &lexErr), tt.input)
		assert.Equal(t, tt.char, lexErr.Char, tt.input)
		assert.Equal(t, tt.line, lexErr.Pos.Line, tt.input)
		assert.Equal(t, tt.column, lexErr.Pos.Column, tt.input)
	}
}

func TestNulIsNotEndOfInput(t *testing.T) {
	l := New("glglrr 1\x00glglrr 2")
	var types []token.TokenType
	for i := 0; i < 3; i++ {
		types = append(types, l.NextToken().Type)
	}
	assert.Equal(t, []token.TokenType{token.PRINT, token.NUMBER, token.ILLEGAL}, types)
	require.Error(t, l.Err())
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.TokenType(token.EOF), tokens[0].Type)
}
