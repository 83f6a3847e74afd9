// Package config loads settings of pegx command line utility.
//
// Settings are taken from pegx.yaml, then overridden by PEGX_* environment variables.
// Variables may also be defined in .env file placed next to the configuration file;
// real environment takes precedence over .env.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/internal/logutil"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/pegxgen"
)

const (
	DefaultFile = "pegx.yaml"
	EnvFile     = ".env"
	EnvPrefix   = "PEGX_"
)

const (
	ReadError = pegx.ConfigErrors + iota
	SyntaxError
	InvalidValueError
	EnvError
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds utility settings. Field tags are both YAML keys and lower-cased
// environment variable names without prefix: PEGX_MAX_STEPS sets max_steps.
type Config struct {
	Target     string `yaml:"target"`
	Package    string `yaml:"package"`
	TypeName   string `yaml:"type_name"`
	ImportPath string `yaml:"import_path"`
	// Output is output directory, empty means the directory of grammar file.
	Output   string   `yaml:"output"`
	Grammars []string `yaml:"grammars"`

	LogLevel string `yaml:"log_level"`
	Color    string `yaml:"color"`

	MaxDepth int    `yaml:"max_depth"`
	MaxSteps uint64 `yaml:"max_steps"`
}

func Default() *Config {
	return &Config{
		Target:   pegxgen.DefaultTarget,
		LogLevel: "info",
		Color:    ColorAuto,
		MaxDepth: parser.DefaultMaxDepth,
	}
}

// Environ returns process environment as a map.
func Environ() map[string]string {
	res := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		res[k] = v
	}
	return res
}

// Load reads configuration file and applies environment overrides from env.
// If path is empty, DefaultFile in current directory is used when present.
// Explicitly named file must exist.
func Load(path string, env map[string]string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	content, e := os.ReadFile(path)
	switch {
	case e == nil:
		if e = yaml.Unmarshal(content, c); e != nil {
			return nil, pegx.FormatError(SyntaxError, "%s: %s", path, e.Error())
		}
	case explicit || !errors.Is(e, fs.ErrNotExist):
		return nil, pegx.FormatError(ReadError, "cannot read config: %s", e.Error())
	}

	dotenv, e := readEnvFile(filepath.Join(filepath.Dir(path), EnvFile))
	if e != nil {
		return nil, e
	}
	for k, v := range env {
		dotenv[k] = v
	}

	if e = c.applyEnv(dotenv); e != nil {
		return nil, e
	}
	return c, c.Validate()
}

func readEnvFile(name string) (map[string]string, error) {
	res, e := godotenv.Read(name)
	if e == nil {
		return res, nil
	}
	if errors.Is(e, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	return nil, pegx.FormatError(EnvError, "cannot read %s: %s", name, e.Error())
}

func (c *Config) applyEnv(env map[string]string) error {
	input := make(map[string]any)
	for k, v := range env {
		key, found := strings.CutPrefix(k, EnvPrefix)
		if !found || key == "" {
			continue
		}
		key = strings.ToLower(key)
		if key == "grammars" {
			input[key] = filepath.SplitList(v)
		} else {
			input[key] = v
		}
	}
	if len(input) == 0 {
		return nil
	}

	d, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           c,
	})
	if e == nil {
		e = d.Decode(input)
	}
	if e != nil {
		return pegx.FormatError(EnvError, "invalid environment: %s", e.Error())
	}
	return nil
}

// Validate checks target name, log level, color mode, and limits.
func (c *Config) Validate() error {
	if _, e := pegxgen.Lookup(c.Target); e != nil {
		return pegx.FormatError(InvalidValueError, "target: %s", e.Error())
	}
	if _, e := logutil.ParseLevel(c.LogLevel); e != nil {
		return pegx.FormatError(InvalidValueError, "log_level: %s", e.Error())
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return pegx.FormatError(InvalidValueError, "color: unknown mode %q", c.Color)
	}
	if c.MaxDepth < 0 {
		return pegx.FormatError(InvalidValueError, "max_depth: negative value %d", c.MaxDepth)
	}
	return nil
}

// Level returns configured log level, Validate has already checked it.
func (c *Config) Level() slog.Level {
	level, _ := logutil.ParseLevel(c.LogLevel)
	return level
}

func (c *Config) RenderOptions() pegxgen.Options {
	return pegxgen.Options{
		Package:    c.Package,
		TypeName:   c.TypeName,
		ImportPath: c.ImportPath,
	}
}

func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithMaxDepth(c.MaxDepth),
		parser.WithMaxSteps(c.MaxSteps),
	}
}
