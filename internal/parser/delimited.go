package parser

import (
	"github.com/sel-lang/sel/internal/lexer"
)

type delimitedConfig struct {
	Closing    lexer.TokenType
	Separators []lexer.TokenType

	// AllowEmpty accepts the closer right after the opener.
	AllowEmpty bool

	// What names an element in error messages.
	What string
}

func (cfg delimitedConfig) isSeparator(tt lexer.TokenType) bool {
	for _, sep := range cfg.Separators {
		if sep == tt {
			return true
		}
	}
	return false
}

func (cfg delimitedConfig) expected() string {
	msg := "'" + string(cfg.Separators[0]) + "'"
	for _, sep := range cfg.Separators[1:] {
		msg += ", '" + string(sep) + "'"
	}
	return msg + " or '" + string(cfg.Closing) + "'"
}

// parseDelimited parses the elements between the opener in curTok and its
// closer. On success curTok is the closer. A separator directly before the
// closer is rejected; a missing or mismatched closer is reported against the
// opener.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func() (T, bool)) ([]T, bool) {
	if cfg.Closing == "" || len(cfg.Separators) == 0 {
		panic("parseDelimited requires a closing token and a separator")
	}

	open := p.curTok
	if !p.enter(open) {
		return nil, false
	}
	defer p.leave()

	p.openBrackets++
	defer func() { p.openBrackets-- }()
	p.trace("%s: open %s", open.Span, open.Raw)

	items := make([]T, 0)

	if p.peekTok.Type == cfg.Closing {
		if !cfg.AllowEmpty {
			p.unexpected(p.peekTok, cfg.What)
			return nil, false
		}
		p.nextToken()
		p.trace("%s: close %s (empty)", p.curTok.Span, p.curTok.Raw)
		return items, true
	}

	for {
		if !p.canStartAtom(p.peekTok.Type) {
			p.missingElement(open, cfg)
			return nil, false
		}
		p.nextToken()

		item, ok := parseItem()
		if !ok {
			return nil, false
		}
		items = append(items, item)

		switch {
		case cfg.isSeparator(p.peekTok.Type):
			p.nextToken()
			if p.peekTok.Type == cfg.Closing {
				p.unexpected(p.peekTok, cfg.What+" after '"+p.curTok.Raw+"'")
				return nil, false
			}
		case p.peekTok.Type == cfg.Closing:
			p.nextToken()
			p.trace("%s: close %s, %d element(s)", p.curTok.Span, p.curTok.Raw, len(items))
			return items, true
		case isSeparator(p.peekTok.Type):
			p.unexpected(p.peekTok, cfg.expected())
			return nil, false
		default:
			p.unbalanced(open, p.peekTok)
			return nil, false
		}
	}
}

// missingElement reports the peek token standing where an element should
// start inside the bracket opened at open.
func (p *Parser) missingElement(open lexer.Token, cfg delimitedConfig) {
	tok := p.peekTok
	if tok.Type == lexer.EOF || (isCloser(tok.Type) && tok.Type != cfg.Closing) {
		p.unbalanced(open, tok)
		return
	}
	p.unexpected(tok, cfg.What)
}
