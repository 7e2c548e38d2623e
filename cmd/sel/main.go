// Command sel parses, checks and formats sel scripts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "sel:", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Streams are injected so commands can run
// in tests.
func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "sel",
		Usage:     "parse, check and format sel scripts",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML settings file (default: ./.sel.yaml when present)",
			},
			&cli.StringFlag{
				Name:    "dialect",
				Usage:   "grammar revision: final or brace",
				EnvVars: []string{"SEL_DIALECT"},
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Usage:   "maximum nesting of brackets and operators, 0 for unlimited",
				EnvVars: []string{"SEL_MAX_DEPTH"},
			},
			&cli.StringFlag{
				Name:    "color",
				Usage:   "colorize diagnostics: auto, always or never",
				EnvVars: []string{"SEL_COLOR"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log timings and parser decisions to stderr",
			},
		},
		Before: e.setup,
		// Exit codes are handled by main.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			parseCommand(e),
			checkCommand(e),
			fmtCommand(e),
			dumpCommand(e),
			tokensCommand(e),
			replCommand(e),
		},
	}
}
