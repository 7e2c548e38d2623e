package parser

import (
	"strconv"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

type atomParseFn func() ast.Node

// Tracer receives debug output about parsing decisions. *logger.Logger from
// github.com/jcgregorio/logger satisfies it.
type Tracer interface {
	Debugf(format string, args ...interface{})
}

type Option func(*options)

type options struct {
	filename string
	dialect  lexer.Dialect
	maxDepth int
	tracer   Tracer
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithDialect selects the grammar revision to parse.
func WithDialect(d lexer.Dialect) Option {
	return func(o *options) {
		o.dialect = d
	}
}

// WithMaxDepth bounds the nesting of brackets, lists and operator-led atoms.
// Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithTracer logs each disambiguation and folding decision to t.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Parser is a recursive descent parser over a one-token lookahead window.
// Invariants:
//   - curTok is the token under examination and peekTok the next one; the pair
//     is only advanced through nextToken.
//   - Every parse function is entered with curTok on the first token of its
//     construct and returns with curTok on the last token it consumed.
//   - The first failure is final: err is set once and every caller unwinds by
//     returning nil.
type Parser struct {
	lx      *lexer.Lexer
	src     string
	curTok  lexer.Token
	peekTok lexer.Token

	err *ParseError

	filename string
	dialect  lexer.Dialect
	maxDepth int
	tracer   Tracer

	depth        int
	openBrackets int

	atomFns map[lexer.TokenType]atomParseFn
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:       lexer.NewWithDialect(input, cfg.dialect),
		src:      input,
		filename: cfg.filename,
		dialect:  cfg.dialect,
		maxDepth: cfg.maxDepth,
		tracer:   cfg.tracer,
		atomFns:  make(map[lexer.TokenType]atomParseFn),
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerAtom(lexer.NAME, p.parseName)
	p.registerAtom(lexer.NUMBER, p.parseNumber)
	p.registerAtom(lexer.STRING, p.parseString)
	p.registerAtom(lexer.LBRACKET, p.parseSubscript)
	p.registerAtom(lexer.UNOP, p.parseUnopAtom)
	p.registerAtom(lexer.BINOP, p.parseBinopAtom)
	if cfg.dialect == lexer.DialectFinal {
		p.registerAtom(lexer.LBRACE, p.parseList)
	}

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Parse parses a complete script. On failure the returned error is a
// *ParseError describing the first problem found.
func Parse(source string, opts ...Option) (*ast.Script, error) {
	p := New(source, opts...)
	script := p.ParseScript()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return script, nil
}

// Err returns the error that stopped parsing, if any.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

func (p *Parser) registerAtom(tokenType lexer.TokenType, fn atomParseFn) {
	p.atomFns[tokenType] = fn
}

func (p *Parser) canStartAtom(tt lexer.TokenType) bool {
	_, ok := p.atomFns[tt]
	return ok
}

func (p *Parser) trace(format string, args ...interface{}) {
	if p.tracer != nil {
		p.tracer.Debugf(format, args...)
	}
}

// enter records one more level of nesting opened at tok.
func (p *Parser) enter(tok lexer.Token) bool {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		p.fail(NestingTooDeep, "nesting exceeds the limit of "+strconv.Itoa(p.maxDepth), tok.Span)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}
