package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up next to the program being run.
const ConfigFileName = "murlang.yaml"

type Configuration struct {
	Version      string `yaml:"-"`
	BuildDate    string `yaml:"-"`
	Commit       string `yaml:"-"`
	RootPath     string `yaml:"-"`
	DebugJsonAST bool   `yaml:"debugJsonAst"`
	DebugTxtAST  bool   `yaml:"debugTxtAst"`

	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`
	Journal  string `yaml:"journal"`
	Color    string `yaml:"color"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: "NONE",
		Color:    "auto",
	}
}

// LoadConfiguration reads path on top of base. A missing file leaves base
// untouched; unknown keys are rejected.
func LoadConfiguration(path string, base Configuration) (Configuration, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	return DecodeConfiguration(file, base)
}

func DecodeConfiguration(r io.Reader, base Configuration) (Configuration, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := base
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from MURLANG_* variables found by lookup.
func (c *Configuration) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MURLANG_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MURLANG_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v, ok := lookup("MURLANG_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("MURLANG_LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := lookup("MURLANG_JOURNAL"); ok {
		c.Journal = v
	}
	if v, ok := lookup("MURLANG_COLOR"); ok {
		c.Color = v
	}
	return c.Validate()
}

func (c *Configuration) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	switch strings.ToLower(c.Color) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "", "DEBUG", "INFO", "WARN", "ERROR", "NONE":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
