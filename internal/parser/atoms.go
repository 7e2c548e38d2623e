package parser

import (
	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

// parseAtom dispatches on curTok to the registered atom parser.
func (p *Parser) parseAtom() ast.Node {
	fn, ok := p.atomFns[p.curTok.Type]
	if !ok {
		p.unexpected(p.curTok, "an atom")
		return nil
	}
	return fn()
}

// parseUnopAtom parses a unop and the operand it wraps. When the unop is
// directly followed by a binop, the binop-led atom binds first, so %-1 is
// %(-(1)) rather than (%(-))(1).
func (p *Parser) parseUnopAtom() ast.Node {
	op := p.curTok
	if !p.enter(op) {
		return nil
	}
	defer p.leave()

	var operand ast.Node
	if p.peekTok.Type == lexer.BINOP {
		p.trace("%s: %s before binop %s, operand is the binop-led atom", op.Span, op.Raw, p.peekTok.Raw)
		p.nextToken()
		operand = p.parseBinopAtom()
	} else {
		if !p.canStartAtom(p.peekTok.Type) {
			p.unexpected(p.peekTok, "operand after '"+op.Raw+"'")
			return nil
		}
		p.trace("%s: %s wraps the next atom", op.Span, op.Raw)
		p.nextToken()
		operand = p.parseAtom()
	}
	if operand == nil {
		return nil
	}

	return ast.NewOperatorPrefixed(op.Raw[0], operand, mergeSpan(op.Span, operand.Span()))
}

// parseBinopAtom parses a binop in atom position as the operator value
// pre-applied to the atom after it: -1 is the function waiting for the
// left operand of '-'.
func (p *Parser) parseBinopAtom() ast.Node {
	op := p.curTok
	if !p.enter(op) {
		return nil
	}
	defer p.leave()

	if !p.canStartAtom(p.peekTok.Type) {
		p.unexpected(p.peekTok, "operand after '"+op.Raw+"'")
		return nil
	}
	p.trace("%s: %s partially applied to the next atom", op.Span, op.Raw)
	p.nextToken()

	arg := p.parseAtom()
	if arg == nil {
		return nil
	}

	value := ast.NewOperatorValue(op.Raw[0], ast.Binop, op.Span)
	return ast.NewApplication(value, arg, mergeSpan(op.Span, arg.Span()))
}
