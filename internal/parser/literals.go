package parser

import (
	"strings"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

func (p *Parser) parseName() ast.Node {
	return ast.NewName(p.curTok.Raw, p.curTok.Span)
}

var radixPrefixes = map[byte]ast.Radix{
	'x': ast.Radix16,
	'b': ast.Radix2,
	'o': ast.Radix8,
}

// parseNumber keeps the literal text; the lexer has already validated it.
func (p *Parser) parseNumber() ast.Node {
	raw := p.curTok.Raw
	if len(raw) > 2 && raw[0] == '0' {
		if radix, ok := radixPrefixes[raw[1]]; ok {
			return ast.NewNumber(raw, raw[2:], radix, false, p.curTok.Span)
		}
	}
	return ast.NewNumber(raw, raw, ast.Radix10, strings.Contains(raw, "."), p.curTok.Span)
}

func (p *Parser) parseString() ast.Node {
	return ast.NewStringLit(decodeString(p.curTok.Raw), p.curTok.Span)
}

// decodeString splits the body of a validated string token into text runs
// and escapes. A doubled "::" stands for one ':'.
func decodeString(raw string) []ast.Segment {
	body := raw[1 : len(raw)-1]

	var segments []ast.Segment
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, ast.Segment{Kind: ast.SegmentText, Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(body); i++ {
		switch ch := body[i]; {
		case ch == '\\' && i+1 < len(body):
			flush()
			code := body[i+1]
			segments = append(segments, ast.Segment{
				Kind: ast.SegmentEscape,
				Text: string(lexer.Escapes[code]),
				Code: code,
			})
			i++
		case ch == ':' && i+1 < len(body) && body[i+1] == ':':
			text.WriteByte(':')
			i++
		default:
			text.WriteByte(ch)
		}
	}
	flush()

	return segments
}

func (p *Parser) parseList() ast.Node {
	open := p.curTok
	elements, ok := parseDelimited(p, delimitedConfig{
		Closing:    lexer.RBRACE,
		Separators: []lexer.TokenType{lexer.COMMA},
		What:       "list element",
	}, p.element)
	if !ok {
		return nil
	}
	return ast.NewList(elements, mergeSpan(open.Span, p.curTok.Span))
}

func (p *Parser) parseSubscript() ast.Node {
	open := p.curTok
	elements, ok := parseDelimited(p, delimitedConfig{
		Closing:    lexer.RBRACKET,
		Separators: []lexer.TokenType{lexer.COMMA, lexer.SEMICOLON},
		AllowEmpty: true,
		What:       "subscript element",
	}, p.element)
	if !ok {
		return nil
	}
	return ast.NewSubscript(elements, mergeSpan(open.Span, p.curTok.Span))
}
