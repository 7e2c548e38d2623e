package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in bytes
	Start    int    // byte offset into the source
	End      int    // exclusive end offset
}

// String renders the span as file:line:col, or line:col when no filename is set.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Token represents a lexical token
type Token struct {
	Type TokenType
	Raw  string // exact source slice
	Span Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Names and literals
	NAME   TokenType = "NAME"   // abc
	NUMBER TokenType = "NUMBER" // 42, 0.5, 0x2A, 0b101, 0o7
	STRING TokenType = "STRING" // :hello:

	// Operators
	UNOP  TokenType = "UNOP"  // % @
	BINOP TokenType = "BINOP" // + - . / = _

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"

	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
)

// Dialect selects between revisions of the surface grammar.
type Dialect int

const (
	// DialectFinal is the current grammar: colon-delimited strings and brace lists.
	DialectFinal Dialect = iota
	// DialectBrace is the earlier revision where {...} is a string literal,
	// ':' is a binary operator and '~' is reserved alongside '^'.
	DialectBrace
)

var dialectNames = map[Dialect]string{
	DialectFinal: "final",
	DialectBrace: "brace",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// ParseDialect maps a dialect name back to its value.
func ParseDialect(name string) (Dialect, bool) {
	for d, n := range dialectNames {
		if n == name {
			return d, true
		}
	}
	return DialectFinal, false
}

func isUnop(ch byte) bool {
	return ch == '%' || ch == '@'
}

func isBinop(ch byte, dialect Dialect) bool {
	switch ch {
	case '+', '-', '.', '/', '=', '_':
		return true
	case ':':
		return dialect == DialectBrace
	default:
		return false
	}
}

func isReserved(ch byte, dialect Dialect) bool {
	switch ch {
	case '^':
		return true
	case '~':
		return dialect == DialectBrace
	default:
		return false
	}
}

// IsOperator reports whether the token is a unary or binary operator symbol.
func (t Token) IsOperator() bool {
	return t.Type == UNOP || t.Type == BINOP
}
