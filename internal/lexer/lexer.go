package lexer

import (
	"strconv"

	"github.com/sel-lang/sel/internal/diag"
)

type LexerErrorKind int

const (
	ErrReservedSymbol LexerErrorKind = iota
	ErrUnterminatedString
	ErrInvalidEscape
	ErrMalformedNumber
	ErrIllegalCharacter
)

var lexerErrorNames = [...]string{
	ErrReservedSymbol:     "ReservedSymbol",
	ErrUnterminatedString: "UnterminatedString",
	ErrInvalidEscape:      "InvalidEscape",
	ErrMalformedNumber:    "MalformedNumber",
	ErrIllegalCharacter:   "IllegalCharacter",
}

func (k LexerErrorKind) String() string {
	if int(k) < len(lexerErrorNames) {
		return lexerErrorNames[k]
	}
	return "LexerErrorKind(" + strconv.Itoa(int(k)) + ")"
}

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (e LexerError) Error() string {
	return e.Span.String() + ": " + e.Message
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrReservedSymbol:
		return diag.CodeLexerReservedSymbol
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrInvalidEscape:
		return diag.CodeLexerInvalidEscape
	case ErrMalformedNumber:
		return diag.CodeLexerMalformedNumber
	case ErrIllegalCharacter:
		return diag.CodeLexerIllegalCharacter
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    string
	pos      int  // index of the current byte
	ch       byte // current byte, only meaningful when pos < len(input)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	dialect  Dialect
	filename string

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// newLexer is the single internal constructor that sets up all lexer state
func newLexer(input string, dialect Dialect) *Lexer {
	l := &Lexer{
		input:   input,
		pos:     -1, // start before first byte
		line:    1,
		column:  0, // will be 1 after first read()
		dialect: dialect,
	}
	l.read()
	return l
}

// New creates a new lexer for the given input using the final grammar.
func New(input string) *Lexer {
	return newLexer(input, DialectFinal)
}

// NewWithDialect creates a lexer for an alternate grammar revision.
func NewWithDialect(input string, dialect Dialect) *Lexer {
	return newLexer(input, dialect)
}

// SetFilename attributes all subsequent spans to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize scans the whole input and returns every token up to and including
// EOF. Comments and whitespace are never emitted. Scanning stops at the first
// lexical error, which is returned alongside the tokens read so far.
func Tokenize(input string, dialect Dialect) ([]Token, error) {
	l := NewWithDialect(input, dialect)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return toks, l.Errors[0]
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

// read advances the lexer to the next byte.
// Line/column always reflect the position of the byte at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if prevPos >= 0 && prevPos < inputLen && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.pos >= inputLen {
		l.pos = inputLen
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// peek returns the next byte without advancing
func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// currentSpanStart captures the position of the byte we're about to tokenize.
func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int) Token {
	return Token{
		Type: tokType,
		Raw:  l.input[startPos:endPos],
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

// single consumes the current byte as a one-byte token.
func (l *Lexer) single(tokType TokenType) Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos)
}

// fail records an error and returns an ILLEGAL token covering startPos..l.pos.
func (l *Lexer) fail(kind LexerErrorKind, msg string, errSpan Span, startLine, startColumn, startPos int) Token {
	l.addError(kind, msg, errSpan)
	end := l.pos
	if end <= startPos && startPos < len(l.input) {
		end = startPos + 1
	}
	return l.makeToken(ILLEGAL, startLine, startColumn, startPos, end)
}

// here returns a one-byte span at the current position.
func (l *Lexer) here() Span {
	return Span{Line: l.line, Column: l.column, Start: l.pos, End: l.pos + 1}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.read()
	}
}

// skipLineComment skips from '#' up to, not including, the line terminator.
func (l *Lexer) skipLineComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.read()
	}
}

func (l *Lexer) readName() Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	for !l.atEOF() && isLower(l.ch) {
		l.read()
	}
	return l.makeToken(NAME, startLine, startColumn, startPos, l.pos)
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		startLine, startColumn, startPos := l.currentSpanStart()
		if l.atEOF() {
			return l.makeToken(EOF, startLine, startColumn, startPos, startPos)
		}

		ch := l.ch
		switch {
		case ch == '#':
			l.skipLineComment()
			continue

		case ch == ',':
			return l.single(COMMA)
		case ch == ';':
			return l.single(SEMICOLON)
		case ch == '[':
			return l.single(LBRACKET)
		case ch == ']':
			return l.single(RBRACKET)

		case ch == ':' && l.dialect == DialectFinal:
			return l.readString()
		case ch == '{' && l.dialect == DialectBrace:
			return l.readBraceString()
		case ch == '{':
			return l.single(LBRACE)
		case ch == '}':
			return l.single(RBRACE)

		case isLower(ch):
			return l.readName()
		case isDigit(ch):
			return l.readNumber()

		case isUnop(ch):
			return l.single(UNOP)
		case isBinop(ch, l.dialect):
			return l.single(BINOP)

		case isReserved(ch, l.dialect):
			span := l.here()
			l.read()
			return l.fail(
				ErrReservedSymbol,
				"reserved symbol "+quoteByte(ch)+" is not assigned",
				span, startLine, startColumn, startPos,
			)

		default:
			span := l.here()
			l.read()
			return l.fail(
				ErrIllegalCharacter,
				"illegal character "+quoteByte(ch),
				span, startLine, startColumn, startPos,
			)
		}
	}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isDigit(ch) || isLower(ch) || (ch >= 'A' && ch <= 'Z')
}
