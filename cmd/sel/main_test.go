package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"

	"github.com/sel-lang/sel/internal/config"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out, &errOut)
	err = app.Run(append([]string{"sel", "--color=never"}, args...))
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec), "expected an exit error, got %v", err)
	return ec.ExitCode()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	out, _, err := run(t, "a  b,\n%-1 # note\n", "parse")
	require.NoError(t, err)
	assert.Equal(t, "a b\n%-1\n", out)
}

func TestParseCommandReportsDiagnostics(t *testing.T) {
	_, errOut, err := run(t, "[1,2", "parse", "-")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, errOut, "error[PARSE_UNBALANCED_BRACKET]: unclosed '['")
	assert.Contains(t, errOut, "--> <stdin>:1:1")
	assert.Contains(t, errOut, " 1 | [1,2")
}

func TestDialectFlag(t *testing.T) {
	out, _, err := run(t, "{::}", "--dialect", "brace", "parse")
	require.NoError(t, err)
	assert.Equal(t, "{::}\n", out)

	out, _, err = run(t, "{::}", "parse")
	require.NoError(t, err)
	assert.Equal(t, "{::}\n", out, "final dialect reads a list holding an empty string")

	_, _, err = run(t, "a", "--dialect", "lisp", "parse")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestMaxDepthFlag(t *testing.T) {
	_, errOut, err := run(t, "[[[a]]]", "--max-depth", "2", "parse")
	require.Error(t, err)
	assert.Contains(t, errOut, "PARSE_NESTING_TOO_DEEP")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.yaml", "dialect: brace\n")

	out, _, err := run(t, "a:b", "--config", cfg, "parse")
	require.NoError(t, err)
	assert.Equal(t, "a :b\n", out)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.sel", "f x, g y\n")
	bad := writeFile(t, dir, "bad.sel", "f 0x1G\n")
	worse := writeFile(t, dir, "worse.sel", "^\n")

	_, _, err := run(t, "", "check", good)
	require.NoError(t, err)

	_, errOut, err := run(t, "", "check", "--jobs", "2", good, bad, worse)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))

	msg := err.Error()
	assert.Contains(t, msg, "2 of 3 file(s) failed:")
	assert.Contains(t, msg, bad+": "+bad+":1:6: MalformedNumber")
	assert.Contains(t, msg, worse)
	assert.NotContains(t, msg, good)
	assert.True(t, strings.Index(msg, bad) < strings.Index(msg, worse), "failures are listed in argument order")

	assert.Contains(t, errOut, "error[LEXER_MALFORMED_NUMBER]")
	assert.Contains(t, errOut, "error[LEXER_RESERVED_SYMBOL]")
}

func TestCheckCommandMissingFile(t *testing.T) {
	_, _, err := run(t, "", "check", filepath.Join(t.TempDir(), "nope.sel"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.sel")
}

func TestFmtCommand(t *testing.T) {
	out, _, err := run(t, "f   -1,[a;b]", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "f -1, [a, b]\n", out)
}

func TestFmtCommandWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.sel", "# header\nmap  % x  xs ,\n")

	_, _, err := run(t, "", "fmt", "-w", path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "map %x xs\n", string(got))
}

func TestDumpCommand(t *testing.T) {
	out, _, err := run(t, "%-1", "dump")
	require.NoError(t, err)
	assert.Equal(t, "(script (prefix % (app (op -) (num 10 1))))\n", out)

	out, _, err = run(t, "abc", "dump", "--format", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "ast.Script")
	assert.Contains(t, out, `Ident: (string) (len=3) "abc"`)

	_, _, err = run(t, "abc", "dump", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestTokensCommand(t *testing.T) {
	out, _, err := run(t, "f :a:", "tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "Kind")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, `":a:"`)
	assert.Contains(t, out, "EOF")

	out, errOut, err := run(t, "f ^", "tokens")
	require.Error(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, errOut, "error[LEXER_RESERVED_SYMBOL]")
	assert.Contains(t, errOut, "<stdin>:1:3")
}

func TestVerboseLogsTrace(t *testing.T) {
	_, errOut, err := run(t, "%-1", "--verbose", "parse")
	require.NoError(t, err)
	assert.Contains(t, errOut, "before binop")
	assert.Contains(t, errOut, "parsed <stdin>")
}

type fakePrompter struct {
	lines   []string
	prompts []string
}

func (f *fakePrompter) Prompt(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func testEnv() (*env, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &env{
		stdout: &out,
		stderr: &errOut,
		cfg:    config.Default(),
		log:    logger.NewFromOptions(&logger.Options{SyncWriter: discard{}}),
	}, &out, &errOut
}

func TestReadByParseProbe(t *testing.T) {
	e, _, _ := testEnv()

	tests := []struct {
		lines   []string
		want    string
		prompts []string
	}{
		{[]string{"a b"}, "a b", []string{promptMain}},
		{[]string{"[1,", "2]"}, "[1,\n2]", []string{promptMain, promptCont}},
		{[]string{":abc", "def:"}, ":abc\ndef:", []string{promptMain, promptCont}},
		{[]string{"f -", "1"}, "f -\n1", []string{promptMain, promptCont}},
		{[]string{"a]"}, "a]", []string{promptMain}},
		{[]string{":quit"}, ":quit", []string{promptMain}},
	}

	for _, tt := range tests {
		p := &fakePrompter{lines: tt.lines}
		got, ok := e.readByParseProbe(p, promptMain, promptCont)
		require.True(t, ok, "%q", tt.lines)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.prompts, p.prompts, "%q", tt.lines)
	}

	_, ok := e.readByParseProbe(&fakePrompter{}, promptMain, promptCont)
	assert.False(t, ok, "end of input stops the loop")
}

func TestHistoryPath(t *testing.T) {
	var logs bytes.Buffer
	e, _, _ := testEnv()
	e.log = logger.NewFromOptions(&logger.Options{SyncWriter: syncWriter{&logs}})

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, historyFile), e.historyPath(func() (string, error) { return dir, nil }))
	assert.Empty(t, logs.String())

	got := e.historyPath(func() (string, error) { return "", errors.New("$HOME is not defined") })
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "repl history disabled")
	assert.Contains(t, logs.String(), "$HOME is not defined")

	logs.Reset()
	assert.Empty(t, e.historyPath(func() (string, error) { return "", nil }))
	assert.Contains(t, logs.String(), "empty home directory")
}

func TestEvalLine(t *testing.T) {
	e, out, errOut := testEnv()

	assert.False(t, e.evalLine("a b, -1"))
	assert.Equal(t, "(app (name a) (name b))\n(app (op -) (num 10 1))\n", out.String())

	assert.False(t, e.evalLine("^"))
	assert.Contains(t, errOut.String(), "<repl>:1:1")

	assert.False(t, e.evalLine("   "))
	assert.True(t, e.evalLine(":quit"))
}
