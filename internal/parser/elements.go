package parser

import (
	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

// ParseScript parses the whole input as comma separated elements. A single
// trailing comma before end of input is accepted.
func (p *Parser) ParseScript() *ast.Script {
	if p.curTok.Type == lexer.EOF {
		p.fail(EmptyScript, "script contains no elements", p.curTok.Span)
		return nil
	}

	start := p.curTok.Span
	var elements []ast.Node

	for {
		elem := p.parseElement()
		if elem == nil {
			return nil
		}
		elements = append(elements, elem)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			if p.peekTok.Type == lexer.EOF {
				return ast.NewScript(elements, mergeSpan(start, p.curTok.Span))
			}
			p.nextToken()
		case lexer.EOF:
			return ast.NewScript(elements, mergeSpan(start, p.curTok.Span))
		default:
			p.unexpected(p.peekTok, "',' or end of input")
			return nil
		}
	}
}

// parseElement folds the run of atoms starting at curTok into a left
// associative application chain. A lone atom is returned as is.
func (p *Parser) parseElement() ast.Node {
	left := p.parseAtom()
	if left == nil {
		return nil
	}

	for p.canStartAtom(p.peekTok.Type) {
		p.nextToken()
		right := p.parseAtom()
		if right == nil {
			return nil
		}
		p.trace("%s: apply %T to %T", right.Span(), left, right)
		left = ast.NewApplication(left, right, mergeSpan(left.Span(), right.Span()))
	}

	return left
}

// element adapts parseElement to parseDelimited.
func (p *Parser) element() (ast.Node, bool) {
	n := p.parseElement()
	return n, n != nil
}
