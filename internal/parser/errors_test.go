package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sel-lang/sel/internal/diag"
	"github.com/sel-lang/sel/internal/lexer"
	"github.com/sel-lang/sel/internal/parser"
)

func asParseError(err error, target **parser.ParseError) bool {
	return errors.As(err, target)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src    string
		kind   parser.ErrorKind
		offset int
	}{
		{"", parser.EmptyScript, 0},
		{"   \n\t", parser.EmptyScript, 5},
		{"# nothing but a comment\n", parser.EmptyScript, 24},

		{"^", parser.ReservedSymbol, 0},
		{"a ^ b", parser.ReservedSymbol, 2},
		{"[1, ^]", parser.ReservedSymbol, 4},
		{":a^b: ^", parser.ReservedSymbol, 6},

		{":abc", parser.UnterminatedString, 0},
		{"a :abc\\n", parser.UnterminatedString, 2},
		{":a\\", parser.UnterminatedString, 0},
		{":a\\q:", parser.InvalidEscape, 2},
		{":\\::", parser.InvalidEscape, 1},

		{"0x1G", parser.MalformedNumber, 3},
		{"0x", parser.MalformedNumber, 2},
		{"0xff", parser.MalformedNumber, 2},
		{"0b2", parser.MalformedNumber, 2},
		{"0b102", parser.MalformedNumber, 4},
		{"0o78", parser.MalformedNumber, 3},
		{"1.", parser.MalformedNumber, 1},
		{"1.2.3", parser.MalformedNumber, 3},
		{"12ab", parser.MalformedNumber, 2},

		{"[1,2", parser.UnbalancedBracket, 0},
		{"a [1,2", parser.UnbalancedBracket, 2},
		{"[1 2", parser.UnbalancedBracket, 0},
		{"[", parser.UnbalancedBracket, 0},
		{"[1}", parser.UnbalancedBracket, 0},
		{"{[a}", parser.UnbalancedBracket, 1},
		{"a]", parser.UnbalancedBracket, 1},
		{"}", parser.UnbalancedBracket, 0},

		{"{}", parser.UnexpectedToken, 1},
		{"[1,]", parser.UnexpectedToken, 3},
		{"[1;]", parser.UnexpectedToken, 3},
		{"{1,}", parser.UnexpectedToken, 3},
		{"[,1]", parser.UnexpectedToken, 1},
		{"a,,b", parser.UnexpectedToken, 2},
		{"a; b", parser.UnexpectedToken, 1},
		{"{a; b}", parser.UnexpectedToken, 2},
		{",", parser.UnexpectedToken, 0},
		{"+", parser.UnexpectedToken, 1},
		{"a -", parser.UnexpectedToken, 3},
		{"[%]", parser.UnexpectedToken, 2},
		{"%, a", parser.UnexpectedToken, 1},

		{"A", parser.IllegalCharacter, 0},
		{"a ~ b", parser.IllegalCharacter, 2},
		{"a \xc3\xa9", parser.IllegalCharacter, 2},
	}

	for _, tt := range tests {
		_, err := parser.Parse(tt.src)
		require.Error(t, err, "input %q", tt.src)

		var perr *parser.ParseError
		require.True(t, asParseError(err, &perr), "input %q: expected *parser.ParseError, got %T", tt.src, err)
		assert.Equal(t, tt.kind, perr.Kind, "input %q: %v", tt.src, err)
		assert.Equal(t, tt.offset, perr.Span.Start, "input %q: %v", tt.src, err)
		assert.True(t, parser.IsKind(err, tt.kind), "input %q", tt.src)
	}
}

func TestBraceDialectErrors(t *testing.T) {
	tests := []struct {
		src    string
		kind   parser.ErrorKind
		offset int
	}{
		{"a ~", parser.ReservedSymbol, 2},
		{"^", parser.ReservedSymbol, 0},
		{"{abc", parser.UnterminatedString, 0},
		{"{a{b}", parser.UnterminatedString, 0},
		{"{a\\z}", parser.InvalidEscape, 2},
		{"a}", parser.UnbalancedBracket, 1},
	}

	for _, tt := range tests {
		_, err := parser.Parse(tt.src, parser.WithDialect(lexer.DialectBrace))

		var perr *parser.ParseError
		require.True(t, asParseError(err, &perr), "input %q: expected *parser.ParseError, got %v", tt.src, err)
		assert.Equal(t, tt.kind, perr.Kind, "input %q", tt.src)
		assert.Equal(t, tt.offset, perr.Span.Start, "input %q", tt.src)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := parser.Parse("a,\n  b ^", parser.WithFilename("x.sel"))

	var perr *parser.ParseError
	require.True(t, asParseError(err, &perr))
	assert.Equal(t, parser.ReservedSymbol, perr.Kind)
	assert.Equal(t, lexer.Span{Filename: "x.sel", Line: 2, Column: 5, Start: 7, End: 8}, perr.Span)
	assert.Equal(t, `x.sel:2:5: ReservedSymbol: reserved symbol "^" is not assigned`, perr.Error())
	assert.Equal(t, "  b ^\n    ^", perr.Snippet)
}

func TestSnippetWindowsLongLines(t *testing.T) {
	src := "a"
	for i := 0; i < 100; i++ {
		src += " a"
	}
	src += " ^"

	_, err := parser.Parse(src)

	var perr *parser.ParseError
	require.True(t, asParseError(err, &perr))
	require.Equal(t, parser.ReservedSymbol, perr.Kind)

	lines := splitLines(perr.Snippet)
	require.Len(t, lines, 2)
	assert.LessOrEqual(t, len(lines[0]), 60)
	caret := len(lines[1]) - 1
	assert.Equal(t, byte('^'), lines[0][caret], "caret must sit under the offending byte")
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func TestUnbalancedBracketNamesOpener(t *testing.T) {
	_, err := parser.Parse("[1,2")

	var perr *parser.ParseError
	require.True(t, asParseError(err, &perr))
	assert.Equal(t, parser.UnbalancedBracket, perr.Kind)
	assert.Equal(t, 0, perr.Span.Start)
	assert.Equal(t, 1, perr.Span.Column)
	require.NotNil(t, perr.Related)
	assert.Equal(t, 4, perr.Related.Start)

	d := perr.ToDiagnostic()
	assert.Equal(t, diag.StageParser, d.Stage)
	assert.Equal(t, diag.CodeParseUnbalancedBracket, d.Code)
	require.Len(t, d.LabeledSpans, 2)
	assert.Equal(t, 0, d.LabeledSpans[0].Span.Start)
	assert.Equal(t, 4, d.LabeledSpans[1].Span.Start)
}

func TestLexerErrorsConvertToLexerDiagnostics(t *testing.T) {
	_, err := parser.Parse("0x1G")

	var perr *parser.ParseError
	require.True(t, asParseError(err, &perr))

	d := perr.ToDiagnostic()
	assert.Equal(t, diag.StageLexer, d.Stage)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, diag.CodeLexerMalformedNumber, d.Code)
	assert.Equal(t, 3, d.Span.Start)
}

func TestFirstErrorWins(t *testing.T) {
	_, err := parser.Parse("[a, ^] ]  0x")

	var perr *parser.ParseError
	require.True(t, asParseError(err, &perr))
	assert.Equal(t, parser.ReservedSymbol, perr.Kind)
	assert.Equal(t, 4, perr.Span.Start)
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{":abc", true},
		{"[1,", true},
		{"[1", true},
		{"{a, [b", true},
		{"a -", true},
		{"%", true},
		{"a]", false},
		{"^", false},
		{"0x1G", false},
		{"[1,]", false},
		{"a; b", false},
	}

	for _, tt := range tests {
		_, err := parser.Parse(tt.src)
		require.Error(t, err, "input %q", tt.src)
		assert.Equal(t, tt.want, parser.IsIncomplete(err), "input %q: %v", tt.src, err)
	}

	assert.False(t, parser.IsIncomplete(nil))
	assert.False(t, parser.IsIncomplete(errors.New("boom")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "UnbalancedBracket", parser.UnbalancedBracket.String())
	assert.Equal(t, "EmptyScript", parser.EmptyScript.String())
	assert.Equal(t, "ErrorKind(99)", parser.ErrorKind(99).String())
}
