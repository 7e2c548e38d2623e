package lexer

import (
	"strconv"
)

// Escapes maps the character following '\' in a string body to the
// control character it denotes.
var Escapes = map[byte]byte{
	'a': '\a',
	'b': '\b',
	't': '\t',
	'n': '\n',
	'v': '\v',
	'f': '\f',
	'r': '\r',
	'e': 0x1b,
}

// readString scans a colon-delimited string. A doubled "::" inside the body
// stands for one literal colon; any other ':' terminates the string.
func (l *Lexer) readString() Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read() // skip opening ':'

	for {
		if l.atEOF() {
			return l.unterminated(startLine, startColumn, startPos)
		}
		switch l.ch {
		case '\\':
			if tok, ok := l.readEscape(startLine, startColumn, startPos); !ok {
				return tok
			}
		case ':':
			l.read()
			if !l.atEOF() && l.ch == ':' {
				l.read()
				continue
			}
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos)
		default:
			l.read()
		}
	}
}

// readBraceString scans a {...} string of the brace dialect, read to the
// '}' balancing the opening brace.
func (l *Lexer) readBraceString() Token {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read() // skip opening '{'

	depth := 1
	for {
		if l.atEOF() {
			return l.unterminated(startLine, startColumn, startPos)
		}
		switch l.ch {
		case '\\':
			if tok, ok := l.readEscape(startLine, startColumn, startPos); !ok {
				return tok
			}
		case '{':
			depth++
			l.read()
		case '}':
			depth--
			l.read()
			if depth == 0 {
				return l.makeToken(STRING, startLine, startColumn, startPos, l.pos)
			}
		default:
			l.read()
		}
	}
}

// readEscape consumes '\' and the escape letter after it. On failure it
// returns the ILLEGAL token to hand back to the caller.
func (l *Lexer) readEscape(startLine, startColumn, startPos int) (Token, bool) {
	escSpan := l.here()
	l.read() // skip '\'
	if l.atEOF() {
		return l.unterminated(startLine, startColumn, startPos), false
	}
	if _, ok := Escapes[l.ch]; !ok {
		escSpan.End = l.pos + 1
		msg := "invalid escape sequence " + strconv.Quote(string([]byte{'\\', l.ch}))
		l.read()
		return l.fail(ErrInvalidEscape, msg, escSpan, startLine, startColumn, startPos), false
	}
	l.read()
	return Token{}, true
}

func (l *Lexer) unterminated(startLine, startColumn, startPos int) Token {
	return l.fail(
		ErrUnterminatedString,
		"unterminated string literal",
		Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
		startLine, startColumn, startPos,
	)
}

var radixNames = map[byte]string{
	'x': "hexadecimal",
	'b': "binary",
	'o': "octal",
}

var radixDigits = map[byte]string{
	'x': "0-9, A-F",
	'b': "0-1",
	'o': "0-7",
}

// quoteByte quotes a single input byte; bytes outside ASCII print as \x escapes.
func quoteByte(ch byte) string {
	return strconv.Quote(string([]byte{ch}))
}

func isRadixDigit(ch, prefix byte) bool {
	switch prefix {
	case 'x':
		return isDigit(ch) || (ch >= 'A' && ch <= 'F')
	case 'b':
		return ch == '0' || ch == '1'
	case 'o':
		return ch >= '0' && ch <= '7'
	}
	return isDigit(ch)
}

// readNumber reads a numeric literal: decimal integer, digits.digits,
// 0x (uppercase hex digits), 0b or 0o. A letter or digit glued to the end of
// a literal, or a prefix without digits, is a malformed number.
func (l *Lexer) readNumber() Token {
	startLine, startColumn, startPos := l.currentSpanStart()

	if l.ch == '0' {
		if name, ok := radixNames[l.peek()]; ok {
			prefix := l.peek()
			l.read() // '0'
			l.read() // prefix letter
			digitsStart := l.pos
			for !l.atEOF() && isRadixDigit(l.ch, prefix) {
				l.read()
			}
			if !l.atEOF() && (isAlnum(l.ch) || l.ch == '.') {
				msg := "invalid digit " + quoteByte(l.ch) + " in " + name + " literal (digits are " + radixDigits[prefix] + ")"
				return l.malformed(msg, startLine, startColumn, startPos)
			}
			if l.pos == digitsStart {
				return l.malformed("missing digits in "+name+" literal", startLine, startColumn, startPos)
			}
			return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos)
		}
	}

	for !l.atEOF() && isDigit(l.ch) {
		l.read()
	}

	if !l.atEOF() && l.ch == '.' {
		if !isDigit(l.peek()) {
			return l.malformed("expected digit after decimal point", startLine, startColumn, startPos)
		}
		l.read() // '.'
		for !l.atEOF() && isDigit(l.ch) {
			l.read()
		}
		if !l.atEOF() && l.ch == '.' {
			return l.malformed("number has more than one decimal point", startLine, startColumn, startPos)
		}
	}

	if !l.atEOF() && isAlnum(l.ch) {
		return l.malformed("invalid character "+quoteByte(l.ch)+" in number literal", startLine, startColumn, startPos)
	}

	return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos)
}

// malformed reports the byte at the current position as the offending one and
// swallows the rest of the glued run so the ILLEGAL token covers it.
func (l *Lexer) malformed(msg string, startLine, startColumn, startPos int) Token {
	span := l.here()
	if l.atEOF() {
		span.End = span.Start
	}
	for !l.atEOF() && (isAlnum(l.ch) || l.ch == '.') {
		l.read()
	}
	return l.fail(ErrMalformedNumber, msg, span, startLine, startColumn, startPos)
}
