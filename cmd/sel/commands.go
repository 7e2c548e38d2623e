package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/lexer"
)

// errFailed signals that diagnostics were already written.
var errFailed = cli.Exit("", 1)

func parseCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse a script and print each element in canonical form",
		ArgsUsage: "[FILE|-]",
		Action: func(c *cli.Context) error {
			name, src, err := e.readSource(c.Args().First())
			if err != nil {
				return err
			}
			script, err := e.parse(name, src)
			if err != nil {
				e.report(name, src, err)
				return errFailed
			}
			p := e.printer()
			for _, elem := range script.Elements {
				out, err := p.Sprint(elem)
				if err != nil {
					return err
				}
				fmt.Fprintln(e.stdout, out)
			}
			return nil
		},
	}
}

// checkResult is the outcome for one file of a check run.
type checkResult struct {
	name string
	src  string
	err  error
}

func checkCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "parse files concurrently and report every failure",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "number of files parsed at once",
				Value: runtime.NumCPU(),
			},
		},
		Action: func(c *cli.Context) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("check: no files given", 2)
			}

			results := make([]checkResult, len(files))
			var g errgroup.Group
			g.SetLimit(max(1, c.Int("jobs")))
			for i, file := range files {
				i, file := i, file
				g.Go(func() error {
					name, src, err := e.readSource(file)
					if err == nil {
						_, err = e.parse(name, src)
					} else {
						name = file
					}
					results[i] = checkResult{name: name, src: src, err: err}
					return nil
				})
			}
			_ = g.Wait()

			var merr *multierror.Error
			for _, r := range results {
				if r.err == nil {
					e.log.Infof("ok %s", r.name)
					continue
				}
				e.report(r.name, r.src, r.err)
				merr = multierror.Append(merr, errors.Wrap(r.err, r.name))
			}
			if merr == nil {
				return nil
			}
			merr.ErrorFormat = summarize(len(files))
			return cli.Exit(merr.Error(), 1)
		},
	}
}

// summarize lists the failed files, one per line, under a count.
func summarize(total int) multierror.ErrorFormatFunc {
	return func(errs []error) string {
		lines := []string{fmt.Sprintf("%d of %d file(s) failed:", len(errs), total)}
		for _, err := range errs {
			lines = append(lines, "  "+firstLine(err.Error()))
		}
		return strings.Join(lines, "\n")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func fmtCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "print scripts in canonical form",
		ArgsUsage: "[FILE...|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "rewrite files in place instead of printing",
			},
		},
		Action: func(c *cli.Context) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				files = []string{"-"}
			}

			failed := false
			for _, file := range files {
				name, src, err := e.readSource(file)
				if err != nil {
					return err
				}
				script, err := e.parse(name, src)
				if err != nil {
					e.report(name, src, err)
					failed = true
					continue
				}
				out, err := e.printer().Sprint(script)
				if err != nil {
					return errors.Wrapf(err, "formatting %s", name)
				}
				out += "\n"

				if !c.Bool("write") || name == stdinName {
					fmt.Fprint(e.stdout, out)
					continue
				}
				if out == src {
					continue
				}
				info, err := os.Stat(name)
				if err != nil {
					return errors.Wrapf(err, "stat %s", name)
				}
				if err := os.WriteFile(name, []byte(out), info.Mode().Perm()); err != nil {
					return errors.Wrapf(err, "writing %s", name)
				}
				e.log.Infof("rewrote %s", name)
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
}

func dumpCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print the syntax tree",
		ArgsUsage: "[FILE|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "sexp or go",
				Value: "sexp",
			},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "sexp" && format != "go" {
				return cli.Exit(fmt.Sprintf("dump: unknown format %q (want sexp or go)", format), 2)
			}

			name, src, err := e.readSource(c.Args().First())
			if err != nil {
				return err
			}
			script, err := e.parse(name, src)
			if err != nil {
				e.report(name, src, err)
				return errFailed
			}

			if format == "go" {
				goDumper.Fdump(e.stdout, script)
				return nil
			}
			fmt.Fprintln(e.stdout, ast.Sexp(script))
			return nil
		},
	}
}

var goDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func tokensCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "print the token stream as a table",
		ArgsUsage: "[FILE|-]",
		Action: func(c *cli.Context) error {
			name, src, err := e.readSource(c.Args().First())
			if err != nil {
				return err
			}

			toks, lexErr := lexer.Tokenize(src, e.dialect())

			table := tablewriter.NewWriter(e.stdout)
			table.SetHeader([]string{"Kind", "Text", "Line", "Col", "Offset"})
			table.SetAutoFormatHeaders(false)
			table.SetAutoWrapText(false)
			for _, tok := range toks {
				table.Append([]string{
					string(tok.Type),
					strconv.Quote(tok.Raw),
					strconv.Itoa(tok.Span.Line),
					strconv.Itoa(tok.Span.Column),
					strconv.Itoa(tok.Span.Start),
				})
			}
			table.Render()

			var le lexer.LexerError
			if errors.As(lexErr, &le) {
				le.Span.Filename = name
				e.diagnose(name, src, le.ToDiagnostic())
				return errFailed
			}
			return lexErr
		},
	}
}

