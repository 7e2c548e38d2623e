package parser

import (
	"github.com/sel-lang/sel/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// The parser relies on lexer spans being half-open; callers should pass the
// earliest start span first to preserve monotonic growth for AST nodes.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func isSeparator(tt lexer.TokenType) bool {
	return tt == lexer.COMMA || tt == lexer.SEMICOLON
}
