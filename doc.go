// Package sel parses sel, a small point-free expression language.
//
// A script is a comma separated list of elements. An element is a run of
// atoms folded into left associative applications: "f x y" applies f to x
// and the result to y. Atoms are names, numbers, colon delimited strings,
// brace lists, bracket subscripts and operator-led atoms:
//
//	-1      the operator '-' waiting for its left operand, applied to 1
//	%x      the unop '%' wrapping x
//	%-1     '%' wrapping (-1); a binop right after a unop binds first
//
// Parsing is fail-fast: the first problem is returned as a *ParseError and
// no partial tree is produced.
package sel
