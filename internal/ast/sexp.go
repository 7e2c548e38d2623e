package ast

import (
	"fmt"
	"strconv"

	"github.com/alttpo/sexp"
)

// ToSexp encodes a tree as an S-expression:
//
//	-1      (app (op -) (num 10 1))
//	%-1     (prefix % (app (op -) (num 10 1)))
//	:ab:    (str #6162#)
//	[a, b]  (sub (name a) (name b))
//
// String contents are hex encoded so arbitrary bytes survive.
func ToSexp(node Node) *sexp.Node {
	switch n := node.(type) {
	case *Script:
		return tagged("script", seq(n.Elements)...)
	case *Name:
		return tagged("name", sexp.MustToken(n.Ident))
	case *Number:
		return tagged("num", raw(strconv.Itoa(int(n.Radix))), raw(n.Raw))
	case *StringLit:
		return tagged("str", sexp.Hexadecimal([]byte(n.Value())))
	case *List:
		return tagged("list", seq(n.Elements)...)
	case *Subscript:
		return tagged("sub", seq(n.Elements)...)
	case *OperatorValue:
		return tagged("op", raw(string(n.Symbol)))
	case *Application:
		return tagged("app", ToSexp(n.Base), ToSexp(n.Argument))
	case *OperatorPrefixed:
		return tagged("prefix", raw(string(n.Op)), ToSexp(n.Operand))
	default:
		panic(fmt.Sprintf("ast.ToSexp: unexpected node type %T", n))
	}
}

// Sexp is shorthand for ToSexp(node).String().
func Sexp(node Node) string {
	return ToSexp(node).String()
}

func tagged(tag string, children ...*sexp.Node) *sexp.Node {
	return sexp.List(append([]*sexp.Node{sexp.MustToken(tag)}, children...)...)
}

func seq(nodes []Node) []*sexp.Node {
	out := make([]*sexp.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ToSexp(n))
	}
	return out
}

// raw builds a token without the producer's character check; operator
// symbols such as '%' and '@' and digit-led numbers fall outside it.
func raw(s string) *sexp.Node {
	return &sexp.Node{Kind: sexp.KindToken, OctetString: []byte(s)}
}
