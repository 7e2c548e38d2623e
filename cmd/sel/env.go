package main

import (
	"io"
	"os"
	"time"

	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/sel-lang/sel/internal/ast"
	"github.com/sel-lang/sel/internal/config"
	"github.com/sel-lang/sel/internal/diag"
	"github.com/sel-lang/sel/internal/lexer"
	"github.com/sel-lang/sel/internal/parser"
	"github.com/sel-lang/sel/internal/printer"
)

// env is the state shared by all commands of one invocation.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg   *config.Config
	log   *logger.Logger
	color bool
}

// setup loads the config file, applies flag overrides and builds the logger.
func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if c.IsSet("dialect") {
		cfg.Dialect = c.String("dialect")
	}
	if c.IsSet("max-depth") {
		cfg.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("color") {
		cfg.Color = c.String("color")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	e.cfg = cfg

	var sink logger.SyncWriter = discard{}
	if cfg.Verbose {
		sink = syncWriter{e.stderr}
	}
	e.log = logger.NewFromOptions(&logger.Options{
		SyncWriter:   sink,
		IncludeDebug: cfg.Verbose,
	})

	e.color = useColor(cfg.Color, e.stderr)
	e.log.Debugf("settings:\n%s", cfg)
	return nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (e *env) dialect() lexer.Dialect {
	return e.cfg.DialectValue()
}

func (e *env) printer() *printer.Printer {
	return printer.New(e.dialect())
}

// parse parses src with the configured options, logging the time taken.
func (e *env) parse(name, src string) (*ast.Script, error) {
	opts := append(e.cfg.ParserOptions(), parser.WithFilename(name))
	if e.cfg.Verbose {
		opts = append(opts, parser.WithTracer(e.log))
	}

	start := time.Now()
	script, err := parser.Parse(src, opts...)
	e.log.Infof("parsed %s (%d bytes) in %s", name, len(src), time.Since(start))
	return script, err
}

// report renders a parse failure for src to stderr. Errors that are not
// parse errors are printed as is.
func (e *env) report(name, src string, err error) {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		_, _ = io.WriteString(e.stderr, "sel: "+err.Error()+"\n")
		return
	}
	e.diagnose(name, src, perr.ToDiagnostic())
}

func (e *env) diagnose(name, src string, d diag.Diagnostic) {
	f := diag.NewFormatter(e.stderr, e.color)
	f.AddSource(name, src)
	f.Format(d)
}

// readSource reads the named file, or stdin for "" and "-".
func (e *env) readSource(arg string) (name, src string, err error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "reading stdin")
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading %s", arg)
	}
	return arg, string(data), nil
}

const stdinName = "<stdin>"

type syncWriter struct {
	io.Writer
}

func (w syncWriter) Sync() error {
	if s, ok := w.Writer.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Sync() error                 { return nil }
