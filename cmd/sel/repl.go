package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/parser"
)

const (
	historyFile = ".sel_history"
	promptMain  = "sel> "
	promptCont  = "...> "
	replName    = "<repl>"
)

func replCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "read scripts interactively and print their trees",
		Action: func(c *cli.Context) error {
			return e.repl()
		},
	}
}

func (e *env) repl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := e.historyPath(os.UserHomeDir); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(e.stdout, "sel", e.dialect(), "dialect. Type :quit to exit.")
	for {
		src, ok := e.readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(e.stdout)
			return nil
		}
		if e.evalLine(src) {
			return nil
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

// prompter is the part of *liner.State the read loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// historyPath locates the history file under the home directory, or returns
// "" when there is none and history is skipped.
func (e *env) historyPath(home func() (string, error)) string {
	dir, err := home()
	if err == nil && dir == "" {
		err = errors.New("empty home directory")
	}
	if err != nil {
		e.log.Warningf("repl history disabled: %v", errors.Wrap(err, "locating home directory"))
		return ""
	}
	return filepath.Join(dir, historyFile)
}

// readByParseProbe reads lines until the accumulated text parses, or fails
// for a reason more input cannot fix. ok is false at end of input.
func (e *env) readByParseProbe(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		// Commands would otherwise read as the start of a string.
		if b.Len() == len(line) && isCommand(line) {
			return src, true
		}
		_, perr := parser.Parse(src, e.cfg.ParserOptions()...)
		if perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func isCommand(line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q", ":help":
		return true
	}
	return false
}

// evalLine handles one complete input and reports whether the loop should
// stop.
func (e *env) evalLine(src string) bool {
	switch strings.TrimSpace(src) {
	case "":
		return false
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(e.stdout, "Enter a script to see its tree. :quit exits.")
		return false
	}

	script, err := e.parse(replName, src)
	if err != nil {
		e.report(replName, src, err)
		return false
	}
	for _, elem := range script.Elements {
		fmt.Fprintln(e.stdout, ast.Sexp(elem))
	}
	return false
}
