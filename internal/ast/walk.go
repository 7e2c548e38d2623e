package ast

import "fmt"

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Script:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *List:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *Subscript:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *Application:
		Walk(n.Base, fn)
		Walk(n.Argument, fn)

	case *OperatorPrefixed:
		Walk(n.Operand, fn)

	// Leaf nodes don't need traversal
	case *Name, *Number, *StringLit, *OperatorValue:

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}
}

// Equal reports whether a and b are the same tree. Spans are ignored.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Script:
		y, ok := b.(*Script)
		return ok && equalSeq(x.Elements, y.Elements)
	case *Name:
		y, ok := b.(*Name)
		return ok && x.Ident == y.Ident
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Raw == y.Raw && x.Digits == y.Digits && x.Radix == y.Radix && x.IsFloat == y.IsFloat
	case *StringLit:
		y, ok := b.(*StringLit)
		if !ok || len(x.Segments) != len(y.Segments) {
			return false
		}
		for i := range x.Segments {
			if x.Segments[i] != y.Segments[i] {
				return false
			}
		}
		return true
	case *List:
		y, ok := b.(*List)
		return ok && equalSeq(x.Elements, y.Elements)
	case *Subscript:
		y, ok := b.(*Subscript)
		return ok && equalSeq(x.Elements, y.Elements)
	case *OperatorValue:
		y, ok := b.(*OperatorValue)
		return ok && x.Symbol == y.Symbol && x.Kind == y.Kind
	case *Application:
		y, ok := b.(*Application)
		return ok && Equal(x.Base, y.Base) && Equal(x.Argument, y.Argument)
	case *OperatorPrefixed:
		y, ok := b.(*OperatorPrefixed)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	default:
		panic(fmt.Sprintf("ast.Equal: unexpected node type %T", x))
	}
}

func equalSeq(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
