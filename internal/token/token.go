package token

import "fmt"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // x, murloc, totalFish
	NUMBER = "NUMBER" // 42, 3.5
	STRING = "STRING" // "mrgl"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	LOGICAL_AND = "&&"
	LOGICAL_OR  = "||"

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	VAR      = "VAR"
	BEGIN    = "BEGIN"
	END      = "END"
	PRINT    = "PRINT"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	IN       = "IN"
	SWITCH   = "SWITCH"
	CASE     = "CASE"
	DEFAULT  = "DEFAULT"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	FUNCTION = "FUNCTION"
	RETURN   = "RETURN"
	STRUCT   = "STRUCT"
	SPAWN    = "SPAWN"
	WAIT     = "WAIT"
	ASYNC    = "ASYNC"
	AWAIT    = "AWAIT"
	TRY      = "TRY"
	CATCH    = "CATCH"
	TRUE     = "TRUE"
	FALSE    = "FALSE"

	// Declared field types
	TYPE_NUMBER = "TYPE_NUMBER"
	TYPE_TEXT   = "TYPE_TEXT"
	TYPE_BOOL   = "TYPE_BOOL"
	TYPE_ARRAY  = "TYPE_ARRAY"
)

// Position locates a token in the source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

var keywords = map[string]TokenType{
	// declarations
	"grrr":       VAR,
	"grrrfnrrg":  FUNCTION,
	"mrrgstruct": STRUCT,

	// blocks
	"mrgl": BEGIN,
	"grl":  END,

	// constants
	"mrglyes": TRUE,
	"mrglno":  FALSE,

	// flow control
	"glglrr":      PRINT,
	"mrglif":      IF,
	"mrglelse":    ELSE,
	"grrrwhile":   WHILE,
	"grrrfor":     FOR,
	"grrin":       IN,
	"grrrswitch":  SWITCH,
	"mrglcase":    CASE,
	"mrgldefault": DEFAULT,
	"blgrrstop":   BREAK,
	"blgrrkeep":   CONTINUE,
	"grrrtn":      RETURN,

	// error handling
	"mrglgl":  TRY,
	"mrglurp": CATCH,

	// concurrency
	"mrglspawn": SPAWN,
	"mrglwait":  WAIT,
	"mrglasync": ASYNC,
	"mrglawait": AWAIT,

	// field types
	"numblrr": TYPE_NUMBER,
	"blbtxt":  TYPE_TEXT,
	"blbool":  TYPE_BOOL,
	"blbarr":  TYPE_ARRAY,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is one of the reserved-word kinds.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}

// Spelling returns the source word for a keyword kind, or the kind itself
// for operators and literals.
func Spelling(t TokenType) string {
	for word, kw := range keywords {
		if kw == t {
			return word
		}
	}
	return string(t)
}

// IsFieldType reports whether t names a built-in declared field type.
func IsFieldType(t TokenType) bool {
	switch t {
	case TYPE_NUMBER, TYPE_TEXT, TYPE_BOOL, TYPE_ARRAY:
		return true
	}
	return false
}
