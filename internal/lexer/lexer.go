package lexer

import (
	"fmt"
	"murlang/internal/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LexError reports the first character the lexer could not make sense of.
type LexError struct {
	Pos     token.Position
	Char    rune
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Pos, e.Message)
}

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 at EOF
	eof          bool // set once readChar runs past the last rune
	line         int
	column       int
	err          *LexError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The returned slice always ends with an EOF
// token unless an error is returned.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if l.err != nil {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// Err returns the lex error that produced the last ILLEGAL token, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	start := l.pos()

	if l.eof {
		return token.Token{Type: token.EOF, Literal: "", Pos: start}
	}

	switch l.ch {
	case '=':
		tok = l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '+':
		tok = newToken(token.PLUS, l.ch, start)
	case '-':
		tok = newToken(token.MINUS, l.ch, start)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, start)
	case '/':
		tok = newToken(token.SLASH, l.ch, start)
	case '%':
		tok = newToken(token.PERCENT, l.ch, start)
	case '!':
		tok = l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '&':
		if l.peekChar() != '&' {
			return l.illegal(start, l.ch, "a lone '&' washed ashore, did you mean '&&'?")
		}
		tok = l.handleCompoundToken(token.ILLEGAL, '&', token.LOGICAL_AND)
	case '|':
		if l.peekChar() != '|' {
			return l.illegal(start, l.ch, "a lone '|' washed ashore, did you mean '||'?")
		}
		tok = l.handleCompoundToken(token.ILLEGAL, '|', token.LOGICAL_OR)
	case '.':
		tok = newToken(token.PERIOD, l.ch, start)
	case ',':
		tok = newToken(token.COMMA, l.ch, start)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, start)
	case ':':
		tok = newToken(token.COLON, l.ch, start)
	case '(':
		tok = newToken(token.LPAREN, l.ch, start)
	case ')':
		tok = newToken(token.RPAREN, l.ch, start)
	case '{':
		tok = newToken(token.LBRACE, l.ch, start)
	case '}':
		tok = newToken(token.RBRACE, l.ch, start)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, start)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, start)
	case '"':
		return l.readString(start)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Pos = start
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Pos = start
			return tok
		}
		return l.illegal(start, l.ch, fmt.Sprintf("unreadable glyph %q in the kelp scroll", l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) illegal(at token.Position, ch rune, message string) token.Token {
	if l.err == nil {
		l.err = &LexError{Pos: at, Char: ch, Message: message}
	}
	return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: at}
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	start := l.pos()
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Pos: start}
	}
	return newToken(t, l.ch, start)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && !l.eof {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions and the
// line/column of the new current rune.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.eof = true
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	return token.Position{Offset: l.position, Line: l.line, Column: l.column}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString consumes a double-quoted text literal, the current rune being
// the opening quote.
func (l *Lexer) readString(start token.Position) token.Token {
	var result strings.Builder
	l.readChar() // consume the opening "

	for {
		if l.eof {
			return l.illegal(start, '"', "this text never finds its closing quote")
		}
		switch l.ch {
		case 0:
			return l.illegal(l.pos(), l.ch, "a NUL glyph hides in the text")
		case '"':
			l.readChar() // consume the closing "
			return token.Token{Type: token.STRING, Literal: result.String(), Pos: start}
		case '\\':
			l.readChar()
			if l.eof {
				return l.illegal(start, '"', "this text never finds its closing quote")
			}
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case 0:
				return l.illegal(l.pos(), l.ch, "a NUL glyph hides in the text")
			default:
				result.WriteRune('\\')
				result.WriteRune(l.ch)
			}
		default:
			result.WriteRune(l.ch)
		}
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, pos token.Position) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Pos: pos}
}
