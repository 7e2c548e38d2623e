// Package ast defines the syntax tree produced by the parser. Node is a closed
// sum: every implementation lives in this package, and consumers switch over
// the concrete pointer types.
package ast

import (
	"math/big"
	"strings"

	"github.com/sel-lang/sel/internal/lexer"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
	node()
}

// Script is the parse result: the comma separated elements of a source text.
type Script struct {
	Elements []Node
	span     lexer.Span
}

// NewScript constructs a script node.
func NewScript(elements []Node, span lexer.Span) *Script {
	return &Script{Elements: elements, span: span}
}

// Span returns the span covering the entire script.
func (s *Script) Span() lexer.Span { return s.span }

// SetSpan updates the script span.
func (s *Script) SetSpan(span lexer.Span) { s.span = span }

func (*Script) node() {}

// Name is a lowercase identifier.
type Name struct {
	Ident string
	span  lexer.Span
}

// NewName constructs a name node.
func NewName(ident string, span lexer.Span) *Name {
	return &Name{Ident: ident, span: span}
}

// Span returns the name span.
func (n *Name) Span() lexer.Span { return n.span }

func (*Name) node() {}

// Radix is the base a numeric literal was written in.
type Radix int

const (
	Radix2  Radix = 2
	Radix8  Radix = 8
	Radix10 Radix = 10
	Radix16 Radix = 16
)

// Number keeps the literal text and its radix; the magnitude is only
// materialized on request, at arbitrary precision.
type Number struct {
	Raw     string // source text, prefix included
	Digits  string // prefix-free digits ("2A" for 0x2A, "1.5" for 1.5)
	Radix   Radix
	IsFloat bool
	span    lexer.Span
}

// NewNumber constructs a number node.
func NewNumber(raw, digits string, radix Radix, isFloat bool, span lexer.Span) *Number {
	return &Number{
		Raw:     raw,
		Digits:  digits,
		Radix:   radix,
		IsFloat: isFloat,
		span:    span,
	}
}

// Span returns the literal span.
func (n *Number) Span() lexer.Span { return n.span }

func (*Number) node() {}

// Int returns the integer value of an integer literal. ok is false for
// decimal fractions.
func (n *Number) Int() (v *big.Int, ok bool) {
	if n.IsFloat {
		return nil, false
	}
	return new(big.Int).SetString(n.Digits, int(n.Radix))
}

// Rat returns the exact value of the literal.
func (n *Number) Rat() *big.Rat {
	if n.IsFloat {
		r, ok := new(big.Rat).SetString(n.Digits)
		if !ok {
			return nil
		}
		return r
	}
	i, ok := n.Int()
	if !ok {
		return nil
	}
	return new(big.Rat).SetInt(i)
}

// SegmentKind tells literal text from a decoded escape.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentEscape
)

// Segment is one run of a string body. For escapes, Code is the letter
// after the backslash and Text the control character it decodes to.
type Segment struct {
	Kind SegmentKind
	Text string
	Code byte
}

// StringLit is a string literal with its escapes decoded.
type StringLit struct {
	Segments []Segment
	span     lexer.Span
}

// NewStringLit constructs a string literal node.
func NewStringLit(segments []Segment, span lexer.Span) *StringLit {
	return &StringLit{Segments: segments, span: span}
}

// Span returns the literal span, delimiters included.
func (s *StringLit) Span() lexer.Span { return s.span }

func (*StringLit) node() {}

// Value returns the decoded content.
func (s *StringLit) Value() string {
	var b strings.Builder
	for _, seg := range s.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// List is a brace delimited, comma separated sequence of elements.
type List struct {
	Elements []Node
	span     lexer.Span
}

// NewList constructs a list node.
func NewList(elements []Node, span lexer.Span) *List {
	return &List{Elements: elements, span: span}
}

// Span returns the span from '{' to '}'.
func (l *List) Span() lexer.Span { return l.span }

func (*List) node() {}

// Subscript is a bracketed sequence of elements. It may be empty.
type Subscript struct {
	Elements []Node
	span     lexer.Span
}

// NewSubscript constructs a subscript node.
func NewSubscript(elements []Node, span lexer.Span) *Subscript {
	return &Subscript{Elements: elements, span: span}
}

// Span returns the span from '[' to ']'.
func (s *Subscript) Span() lexer.Span { return s.span }

func (*Subscript) node() {}

// OperatorKind distinguishes unary from binary operator symbols.
type OperatorKind int

const (
	Unop OperatorKind = iota
	Binop
)

func (k OperatorKind) String() string {
	if k == Unop {
		return "unop"
	}
	return "binop"
}

// OperatorValue is an operator symbol used as an operand.
type OperatorValue struct {
	Symbol byte
	Kind   OperatorKind
	span   lexer.Span
}

// NewOperatorValue constructs an operator value node.
func NewOperatorValue(symbol byte, kind OperatorKind, span lexer.Span) *OperatorValue {
	return &OperatorValue{Symbol: symbol, Kind: kind, span: span}
}

// Span returns the symbol span.
func (o *OperatorValue) Span() lexer.Span { return o.span }

func (*OperatorValue) node() {}

// Application applies Base to Argument. Chains nest to the left:
// a b c is Application(Application(a, b), c).
type Application struct {
	Base     Node
	Argument Node
	span     lexer.Span
}

// NewApplication constructs an application node.
func NewApplication(base, argument Node, span lexer.Span) *Application {
	return &Application{Base: base, Argument: argument, span: span}
}

// Span returns the span covering base and argument.
func (a *Application) Span() lexer.Span { return a.span }

func (*Application) node() {}

// OperatorPrefixed is a unary operator wrapping the atom after it.
type OperatorPrefixed struct {
	Op      byte
	Operand Node
	span    lexer.Span
}

// NewOperatorPrefixed constructs a prefixed node.
func NewOperatorPrefixed(op byte, operand Node, span lexer.Span) *OperatorPrefixed {
	return &OperatorPrefixed{Op: op, Operand: operand, span: span}
}

// Span returns the span from the operator to the end of its operand.
func (o *OperatorPrefixed) Span() lexer.Span { return o.span }

func (*OperatorPrefixed) node() {}
