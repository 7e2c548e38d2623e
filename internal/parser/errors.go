package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sel-lang/sel/internal/diag"
	"github.com/sel-lang/sel/internal/lexer"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	ReservedSymbol ErrorKind = iota
	UnterminatedString
	InvalidEscape
	MalformedNumber
	UnexpectedToken
	UnbalancedBracket
	EmptyScript
	IllegalCharacter
	NestingTooDeep
)

var errorKindNames = [...]string{
	ReservedSymbol:     "ReservedSymbol",
	UnterminatedString: "UnterminatedString",
	InvalidEscape:      "InvalidEscape",
	MalformedNumber:    "MalformedNumber",
	UnexpectedToken:    "UnexpectedToken",
	UnbalancedBracket:  "UnbalancedBracket",
	EmptyScript:        "EmptyScript",
	IllegalCharacter:   "IllegalCharacter",
	NestingTooDeep:     "NestingTooDeep",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var lexerKinds = map[lexer.LexerErrorKind]ErrorKind{
	lexer.ErrReservedSymbol:     ReservedSymbol,
	lexer.ErrUnterminatedString: UnterminatedString,
	lexer.ErrInvalidEscape:      InvalidEscape,
	lexer.ErrMalformedNumber:    MalformedNumber,
	lexer.ErrIllegalCharacter:   IllegalCharacter,
}

var diagnosticCodes = map[ErrorKind]diag.Code{
	ReservedSymbol:     diag.CodeLexerReservedSymbol,
	UnterminatedString: diag.CodeLexerUnterminatedString,
	InvalidEscape:      diag.CodeLexerInvalidEscape,
	MalformedNumber:    diag.CodeLexerMalformedNumber,
	IllegalCharacter:   diag.CodeLexerIllegalCharacter,
	UnexpectedToken:    diag.CodeParseUnexpectedToken,
	UnbalancedBracket:  diag.CodeParseUnbalancedBracket,
	EmptyScript:        diag.CodeParseEmptyScript,
	NestingTooDeep:     diag.CodeParseNestingTooDeep,
}

// ParseError is the single error a failed parse reports.
type ParseError struct {
	Kind    ErrorKind
	Message string
	// Span locates the offending input. For UnbalancedBracket it is the
	// opening bracket, or the stray closer when there is no opener.
	Span lexer.Span
	// Related is where an unbalanced bracket was noticed, if that differs
	// from Span.
	Related *lexer.Span
	// Snippet is the source line around Span with a caret under it.
	Snippet string

	fromLexer bool
	atEOF     bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}

// ToDiagnostic converts the error into the shared diagnostic structure.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	stage := diag.StageParser
	if e.fromLexer {
		stage = diag.StageLexer
	}
	d := diag.Diagnostic{
		Stage:    stage,
		Severity: diag.SeverityError,
		Code:     diagnosticCodes[e.Kind],
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}

	switch e.Kind {
	case UnbalancedBracket:
		if e.Related != nil {
			d = d.WithPrimarySpan(toDiagSpan(e.Span), "unclosed bracket opened here").
				WithSecondarySpan(toDiagSpan(*e.Related), "expected the closing bracket here")
		}
	case EmptyScript:
		d = d.WithHelp("a script needs at least one element")
	case InvalidEscape:
		d = d.WithHelp(`valid escapes are \a \b \t \n \v \f \r \e; write '::' for a literal ':'`)
	case ReservedSymbol:
		d = d.WithNote("reserved symbols are intentionally unassigned")
	}
	return d
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *ParseError
	return errors.As(err, &perr) && perr.Kind == kind
}

// IsIncomplete reports whether err could go away by appending more input: an
// unterminated string, or a bracket or operand still missing at end of input.
func IsIncomplete(err error) bool {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return false
	}
	switch perr.Kind {
	case UnterminatedString:
		return true
	case UnbalancedBracket, UnexpectedToken:
		return perr.atEOF
	}
	return false
}

// fail records the first error; later failures are ignored.
func (p *Parser) fail(kind ErrorKind, msg string, span lexer.Span) *ParseError {
	if p.err != nil {
		return p.err
	}
	if span.Filename == "" {
		span.Filename = p.filename
	}
	p.err = &ParseError{
		Kind:    kind,
		Message: msg,
		Span:    span,
		Snippet: snippet(p.src, span),
	}
	p.trace("parse failed: %s", p.err)
	return p.err
}

// failLexer surfaces the lexer error behind an ILLEGAL token.
func (p *Parser) failLexer(tok lexer.Token) {
	if p.err != nil {
		return
	}
	var lexErr *lexer.LexerError
	for i := range p.lx.Errors {
		e := &p.lx.Errors[i]
		if e.Span.Start >= tok.Span.Start && e.Span.Start <= tok.Span.End {
			lexErr = e
			break
		}
	}
	if lexErr == nil {
		p.fail(IllegalCharacter, "illegal token "+describe(tok), tok.Span)
		return
	}
	perr := p.fail(lexerKinds[lexErr.Kind], lexErr.Message, lexErr.Span)
	perr.fromLexer = true
	perr.atEOF = lexErr.Kind == lexer.ErrUnterminatedString
}

// unexpected reports tok where something else was expected.
func (p *Parser) unexpected(tok lexer.Token, expected string) {
	if p.err != nil {
		return
	}
	switch {
	case tok.Type == lexer.ILLEGAL:
		p.failLexer(tok)
	case isCloser(tok.Type) && p.openBrackets == 0:
		p.fail(UnbalancedBracket, "unmatched "+describe(tok)+" with no opening bracket", tok.Span)
	default:
		perr := p.fail(UnexpectedToken, "expected "+expected+", found "+describe(tok), tok.Span)
		perr.atEOF = tok.Type == lexer.EOF
	}
}

// unbalanced reports the bracket opened at open as never properly closed;
// at is the token where the closer was expected.
func (p *Parser) unbalanced(open, at lexer.Token) {
	if p.err != nil {
		return
	}
	if at.Type == lexer.ILLEGAL {
		p.failLexer(at)
		return
	}
	msg := "unclosed " + describe(open)
	if at.Type != lexer.EOF {
		msg += ", found " + describe(at)
	}
	perr := p.fail(UnbalancedBracket, msg, open.Span)
	related := at.Span
	if related.Filename == "" {
		related.Filename = p.filename
	}
	perr.Related = &related
	perr.atEOF = at.Type == lexer.EOF
}

func isCloser(tt lexer.TokenType) bool {
	return tt == lexer.RBRACKET || tt == lexer.RBRACE
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NAME:
		return "name '" + tok.Raw + "'"
	case lexer.NUMBER:
		return "number " + tok.Raw
	case lexer.STRING:
		return "string literal"
	case lexer.UNOP, lexer.BINOP:
		return "operator '" + tok.Raw + "'"
	default:
		return "'" + tok.Raw + "'"
	}
}

// snippet returns the line holding span (clipped to a window around the
// column) followed by a caret line.
func snippet(src string, span lexer.Span) string {
	const window = 60

	start := span.Start
	if start > len(src) {
		start = len(src)
	}
	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	lineEnd := strings.IndexByte(src[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += start
	}
	line := strings.TrimRight(src[lineStart:lineEnd], "\r")
	col := start - lineStart

	if len(line) > window {
		from := max(0, col-window/2)
		to := min(len(line), from+window)
		line = line[from:to]
		col -= from
	}
	col = min(col, len(line))
	return line + "\n" + strings.Repeat(" ", col) + "^"
}
