// Package printer renders syntax trees back to source text. The output is
// canonical: elements are joined by ", ", atoms of an application chain by a
// single space, and comments are dropped. Parsing the output yields a tree
// equal to the input.
package printer

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

// ErrUnrepresentable is returned for trees no source text parses to, such as
// an empty list or an application chain in argument position.
var ErrUnrepresentable = errors.New("node has no source form")

// Printer renders trees for one dialect.
type Printer struct {
	dialect lexer.Dialect
}

// New returns a printer for dialect.
func New(dialect lexer.Dialect) *Printer {
	return &Printer{dialect: dialect}
}

// Format renders node in the final dialect.
func Format(node ast.Node) (string, error) {
	return New(lexer.DialectFinal).Sprint(node)
}

// Sprint renders node. A *ast.Script becomes its comma separated elements;
// any other node is rendered as a single element.
func (p *Printer) Sprint(node ast.Node) (string, error) {
	var b strings.Builder
	if err := p.Fprint(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint writes the rendering of node to w. Nothing is written when node
// cannot be represented.
func (p *Printer) Fprint(w io.Writer, node ast.Node) error {
	var b strings.Builder
	var err error
	if script, ok := node.(*ast.Script); ok {
		if len(script.Elements) == 0 {
			return errors.Wrap(ErrUnrepresentable, "empty script")
		}
		err = p.elements(&b, script.Elements)
	} else {
		err = p.element(&b, node)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func (p *Printer) elements(b *strings.Builder, nodes []ast.Node) error {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := p.element(b, n); err != nil {
			return err
		}
	}
	return nil
}

// element writes an application chain: the base chain, a space, then the
// last argument as an atom.
func (p *Printer) element(b *strings.Builder, node ast.Node) error {
	app, ok := node.(*ast.Application)
	if !ok || isOperatorValue(app.Base) {
		return p.atom(b, node)
	}
	if err := p.element(b, app.Base); err != nil {
		return err
	}
	b.WriteByte(' ')
	return p.atom(b, app.Argument)
}

func (p *Printer) atom(b *strings.Builder, node ast.Node) error {
	switch n := node.(type) {
	case *ast.Name:
		return p.name(b, n)
	case *ast.Number:
		if n.Raw == "" {
			return errors.Wrap(ErrUnrepresentable, "number without source text")
		}
		b.WriteString(n.Raw)
		return nil
	case *ast.StringLit:
		return p.str(b, n)
	case *ast.List:
		if p.dialect != lexer.DialectFinal {
			return errors.Wrapf(ErrUnrepresentable, "lists do not exist in the %s dialect", p.dialect)
		}
		if len(n.Elements) == 0 {
			return errors.Wrap(ErrUnrepresentable, "empty list")
		}
		b.WriteByte('{')
		if err := p.elements(b, n.Elements); err != nil {
			return err
		}
		b.WriteByte('}')
		return nil
	case *ast.Subscript:
		b.WriteByte('[')
		if err := p.elements(b, n.Elements); err != nil {
			return err
		}
		b.WriteByte(']')
		return nil
	case *ast.OperatorPrefixed:
		if n.Op != '%' && n.Op != '@' {
			return errors.Wrapf(ErrUnrepresentable, "%q is not a unary operator", n.Op)
		}
		b.WriteByte(n.Op)
		return p.atom(b, n.Operand)
	case *ast.Application:
		op, ok := n.Base.(*ast.OperatorValue)
		if !ok {
			return errors.Wrap(ErrUnrepresentable, "application chain in argument position")
		}
		if err := p.binop(b, op); err != nil {
			return err
		}
		return p.atom(b, n.Argument)
	case *ast.OperatorValue:
		return errors.Wrapf(ErrUnrepresentable, "operator %q without an operand", n.Symbol)
	default:
		return errors.Wrapf(ErrUnrepresentable, "%T in element position", n)
	}
}

func (p *Printer) name(b *strings.Builder, n *ast.Name) error {
	if n.Ident == "" {
		return errors.Wrap(ErrUnrepresentable, "empty name")
	}
	for i := 0; i < len(n.Ident); i++ {
		if c := n.Ident[i]; c < 'a' || c > 'z' {
			return errors.Wrapf(ErrUnrepresentable, "name %q has a character outside a-z", n.Ident)
		}
	}
	b.WriteString(n.Ident)
	return nil
}

func (p *Printer) binop(b *strings.Builder, op *ast.OperatorValue) error {
	switch op.Symbol {
	case '+', '-', '.', '/', '=', '_':
	case ':':
		if p.dialect != lexer.DialectBrace {
			return errors.Wrapf(ErrUnrepresentable, "':' is not an operator in the %s dialect", p.dialect)
		}
	default:
		return errors.Wrapf(ErrUnrepresentable, "%q is not a binary operator", op.Symbol)
	}
	if op.Kind != ast.Binop {
		return errors.Wrapf(ErrUnrepresentable, "operator %q used as a unop value", op.Symbol)
	}
	b.WriteByte(op.Symbol)
	return nil
}

// str re-escapes a string literal. Escape segments keep their letter, and
// ':' in text is doubled.
func (p *Printer) str(b *strings.Builder, s *ast.StringLit) error {
	openDelim, closeDelim := byte(':'), byte(':')
	if p.dialect == lexer.DialectBrace {
		openDelim, closeDelim = '{', '}'
	}

	var body strings.Builder
	depth := 0
	for _, seg := range s.Segments {
		if seg.Kind == ast.SegmentEscape {
			if _, ok := lexer.Escapes[seg.Code]; !ok {
				return errors.Wrapf(ErrUnrepresentable, "unknown escape %q", seg.Code)
			}
			body.WriteByte('\\')
			body.WriteByte(seg.Code)
			continue
		}
		for i := 0; i < len(seg.Text); i++ {
			switch c := seg.Text[i]; c {
			case '\\':
				return errors.Wrap(ErrUnrepresentable, "literal backslash in string")
			case ':':
				body.WriteString("::")
			case '{', '}':
				if p.dialect == lexer.DialectBrace {
					if c == '{' {
						depth++
					} else if depth--; depth < 0 {
						return errors.Wrap(ErrUnrepresentable, "unbalanced '}' in brace string")
					}
				}
				body.WriteByte(c)
			default:
				body.WriteByte(c)
			}
		}
	}
	if depth != 0 {
		return errors.Wrap(ErrUnrepresentable, "unbalanced '{' in brace string")
	}

	b.WriteByte(openDelim)
	b.WriteString(body.String())
	b.WriteByte(closeDelim)
	return nil
}

func isOperatorValue(n ast.Node) bool {
	_, ok := n.(*ast.OperatorValue)
	return ok
}
