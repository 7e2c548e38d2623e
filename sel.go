package sel

import (
	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
	"github.com/sel-lang/sel/internal/parser"
	"github.com/sel-lang/sel/internal/printer"
)

type (
	// Script is the root of a parsed source text.
	Script = ast.Script
	// Node is any element of the tree.
	Node = ast.Node
	// ParseError describes why parsing stopped.
	ParseError = parser.ParseError
	// ErrorKind classifies a ParseError.
	ErrorKind = parser.ErrorKind
	// Option configures a parse.
	Option = parser.Option
	// Dialect selects the grammar revision.
	Dialect = lexer.Dialect
)

const (
	DialectFinal = lexer.DialectFinal
	DialectBrace = lexer.DialectBrace
)

const (
	ReservedSymbol     = parser.ReservedSymbol
	UnterminatedString = parser.UnterminatedString
	InvalidEscape      = parser.InvalidEscape
	MalformedNumber    = parser.MalformedNumber
	UnexpectedToken    = parser.UnexpectedToken
	UnbalancedBracket  = parser.UnbalancedBracket
	EmptyScript        = parser.EmptyScript
	IllegalCharacter   = parser.IllegalCharacter
	NestingTooDeep     = parser.NestingTooDeep
)

var (
	WithFilename = parser.WithFilename
	WithDialect  = parser.WithDialect
	WithMaxDepth = parser.WithMaxDepth
	WithTracer   = parser.WithTracer

	IsKind       = parser.IsKind
	IsIncomplete = parser.IsIncomplete

	// ErrUnrepresentable is returned by Format for trees that no source
	// text parses to.
	ErrUnrepresentable = printer.ErrUnrepresentable
)

// Parse parses source into a Script. Each call is independent, so distinct
// inputs may be parsed concurrently.
func Parse(source string, opts ...Option) (*Script, error) {
	return parser.Parse(source, opts...)
}

// MustParse is like Parse but panics on error. It is meant for sources
// known to be valid, such as literals in tests.
func MustParse(source string, opts ...Option) *Script {
	script, err := Parse(source, opts...)
	if err != nil {
		panic("sel: MustParse(" + source + "): " + err.Error())
	}
	return script
}

// Format renders node in canonical final-dialect form. Parsing the result
// yields a tree equal to node.
func Format(node Node) (string, error) {
	return printer.Format(node)
}
