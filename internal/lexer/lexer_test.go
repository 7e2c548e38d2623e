package lexer

import (
	"testing"
)

func TestNextToken_Basic(t *testing.T) {
	input := `map %-1 [xs; 2], {:a:}`

	tests := []struct {
		expectedType TokenType
		expectedRaw  string
	}{
		{NAME, "map"},
		{UNOP, "%"},
		{BINOP, "-"},
		{NUMBER, "1"},
		{LBRACKET, "["},
		{NAME, "xs"},
		{SEMICOLON, ";"},
		{NUMBER, "2"},
		{RBRACKET, "]"},
		{COMMA, ","},
		{LBRACE, "{"},
		{STRING, ":a:"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Raw != tt.expectedRaw {
			t.Fatalf("tests[%d] - raw wrong. expected=%q, got=%q",
				i, tt.expectedRaw, tok.Raw)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := `+ - . / = _ % @`

	expected := []TokenType{BINOP, BINOP, BINOP, BINOP, BINOP, BINOP, UNOP, UNOP, EOF}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q (%q)", i, typ, tok.Type, tok.Raw)
		}
		if tok.IsOperator() != (typ == BINOP || typ == UNOP) {
			t.Fatalf("step %d - IsOperator wrong for %q", i, tok.Raw)
		}
	}
}

func TestNextToken_OperatorsAreNotGluedIntoNames(t *testing.T) {
	l := New("a_b")

	for i, want := range []string{"a", "_", "b"} {
		tok := l.NextToken()
		if tok.Raw != want {
			t.Fatalf("step %d - expected %q, got %q", i, want, tok.Raw)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []string{"0", "42", "3.14", "0x2A", "0xFF00", "0b1010", "0o755", "007"}

	for _, src := range tests {
		l := New(src)
		tok := l.NextToken()
		if tok.Type != NUMBER || tok.Raw != src {
			t.Fatalf("%q: expected NUMBER %q, got %s %q", src, src, tok.Type, tok.Raw)
		}
		if next := l.NextToken(); next.Type != EOF {
			t.Fatalf("%q: expected EOF after number, got %s", src, next.Type)
		}
	}
}

func TestNextToken_NumberFollowedByOperator(t *testing.T) {
	l := New("1.5.f")
	if tok := l.NextToken(); tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for a second decimal point, got %s %q", tok.Type, tok.Raw)
	}

	l = New("2-1")
	for i, want := range []TokenType{NUMBER, BINOP, NUMBER, EOF} {
		if tok := l.NextToken(); tok.Type != want {
			t.Fatalf("step %d - expected %s, got %s", i, want, tok.Type)
		}
	}
}

func TestNextToken_Strings(t *testing.T) {
	tests := []struct {
		input string
		raw   string
	}{
		{`:hello:`, `:hello:`},
		{`::`, `::`},
		{`::::`, `::::`},
		{`:a::b: rest`, `:a::b:`},
		{`:tab\there:`, `:tab\there:`},
		{":multi\nline:", ":multi\nline:"},
		{`:#not a comment:`, `:#not a comment:`},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("%q: expected STRING, got %s", tt.input, tok.Type)
		}
		if tok.Raw != tt.raw {
			t.Fatalf("%q: expected raw %q, got %q", tt.input, tt.raw, tok.Raw)
		}
	}
}

func TestNextToken_CommentsAndWhitespace(t *testing.T) {
	input := "# header\n  a # trailing\n\t\r\n# last"

	l := New(input)
	tok := l.NextToken()
	if tok.Type != NAME || tok.Raw != "a" {
		t.Fatalf("expected NAME a, got %s %q", tok.Type, tok.Raw)
	}
	if tok = l.NextToken(); tok.Type != EOF {
		t.Fatalf("expected EOF, got %s %q", tok.Type, tok.Raw)
	}
	if tok.Span.Start != len(input) {
		t.Fatalf("expected EOF at offset %d, got %d", len(input), tok.Span.Start)
	}
}

func TestSpans(t *testing.T) {
	input := "ab\n  :x: 12"

	tests := []Span{
		{Line: 1, Column: 1, Start: 0, End: 2},
		{Line: 2, Column: 3, Start: 5, End: 8},
		{Line: 2, Column: 7, Start: 9, End: 11},
		{Line: 2, Column: 9, Start: 11, End: 11},
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Span != want {
			t.Fatalf("token %d (%q) - expected span %+v, got %+v", i, tok.Raw, want, tok.Span)
		}
	}
}

func TestSetFilename(t *testing.T) {
	l := New("a ^")
	l.SetFilename("demo.sel")

	if tok := l.NextToken(); tok.Span.Filename != "demo.sel" {
		t.Fatalf("expected filename on token span, got %q", tok.Span.Filename)
	}
	if tok := l.NextToken(); tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if len(l.Errors) != 1 || l.Errors[0].Span.Filename != "demo.sel" {
		t.Fatalf("expected one error attributed to demo.sel, got %+v", l.Errors)
	}
	if got := l.Errors[0].Error(); got != `demo.sel:1:3: reserved symbol "^" is not assigned` {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestBraceDialect(t *testing.T) {
	l := NewWithDialect("{a {b} c} : x", DialectBrace)

	tests := []struct {
		typ TokenType
		raw string
	}{
		{STRING, "{a {b} c}"},
		{BINOP, ":"},
		{NAME, "x"},
		{EOF, ""},
	}
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Raw != tt.raw {
			t.Fatalf("step %d - expected %s %q, got %s %q", i, tt.typ, tt.raw, tok.Type, tok.Raw)
		}
	}
}

func TestDialectNames(t *testing.T) {
	for _, d := range []Dialect{DialectFinal, DialectBrace} {
		got, ok := ParseDialect(d.String())
		if !ok || got != d {
			t.Fatalf("dialect %s did not survive its name", d)
		}
	}
	if _, ok := ParseDialect("lisp"); ok {
		t.Fatalf("expected unknown dialect name to be rejected")
	}
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("f [1], :s:", DialectFinal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []TokenType{NAME, LBRACKET, NUMBER, RBRACKET, COMMA, STRING, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i := range want {
		if toks[i].Type != want[i] {
			t.Fatalf("token %d - expected %s, got %s", i, want[i], toks[i].Type)
		}
	}
}

func TestTokenizeStopsAtFirstError(t *testing.T) {
	toks, err := Tokenize("a b ^ :open", DialectFinal)
	if err == nil {
		t.Fatalf("expected an error")
	}

	lexErr, ok := err.(LexerError)
	if !ok {
		t.Fatalf("expected LexerError, got %T", err)
	}
	if lexErr.Kind != ErrReservedSymbol || lexErr.Span.Start != 4 {
		t.Fatalf("expected ReservedSymbol at 4, got %s at %d", lexErr.Kind, lexErr.Span.Start)
	}
	if len(toks) != 2 {
		t.Fatalf("expected the 2 tokens before the error, got %d", len(toks))
	}
}
