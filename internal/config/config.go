// Package config loads the settings shared by the sel commands.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sel-lang/sel/internal/lexer"
	"github.com/sel-lang/sel/internal/parser"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".sel.yaml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds parser and output settings.
type Config struct {
	// Dialect is the grammar revision: "final" or "brace".
	Dialect string `yaml:"dialect"`

	// MaxDepth bounds bracket and operator nesting. 0 means unlimited.
	MaxDepth int `yaml:"max_depth"`

	// Color is one of auto, always or never.
	Color string `yaml:"color"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Dialect: lexer.DialectFinal.String(),
		Color:   ColorAuto,
	}
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultFile if it exists and falls back to Default otherwise.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Read decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Read(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "decoding config")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, ok := lexer.ParseDialect(c.Dialect); !ok {
		return errors.Errorf("unknown dialect %q (want final or brace)", c.Dialect)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	return nil
}

// DialectValue returns the configured dialect. Call Validate first.
func (c *Config) DialectValue() lexer.Dialect {
	d, _ := lexer.ParseDialect(c.Dialect)
	return d
}

// ParserOptions converts the settings to parser options.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithDialect(c.DialectValue()),
		parser.WithMaxDepth(c.MaxDepth),
	}
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(out)
}
