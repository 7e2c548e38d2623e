package parser

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok). The lexer is only
// queried from this hop, so the whole parse never holds more than the two
// tokens of the window.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	// Past the end the lexer keeps yielding EOF.
	p.peekTok = p.lx.NextToken()
}
