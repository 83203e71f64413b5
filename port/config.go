package port

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/py3port/internal/idioms"
	"github.com/gnolang/py3port/internal/pytree"
)

// DefaultConfigFile is where init writes, and port and scan look, by default.
const DefaultConfigFile = ".py3port.yaml"

// supportedPythons are the source versions the passes understand.
const supportedPythons = ">=2.6, <3.0"

// Config is the content of a .py3port.yaml file.
type Config struct {
	Name string `yaml:"name"`
	// PythonVersion is the version the sources are written for.
	PythonVersion string `yaml:"python_version"`
	// PrintFunction parses print as a function in every file, not only in
	// those importing print_function.
	PrintFunction bool                  `yaml:"print_function"`
	Passes        map[string]PassConfig `yaml:"passes"`
	ContextLines  map[string]int        `yaml:"context_lines"`
	Futurize      FuturizeConfig        `yaml:"futurize"`
	// Verify re-parses every rewritten file with an independent parser.
	Verify bool `yaml:"verify"`
}

type PassConfig struct {
	Disabled bool `yaml:"disabled"`
}

type FuturizeConfig struct {
	Disabled bool     `yaml:"disabled"`
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:          "py3port",
		PythonVersion: "2.7",
		Passes:        map[string]PassConfig{},
		ContextLines:  map[string]int{},
		Futurize: FuturizeConfig{
			Command: "futurize",
			Args:    slices.Clone(defaultFuturizeArgs),
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error decoding %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the python version and pass names.
func (c Config) Validate() error {
	if c.PythonVersion != "" {
		v, err := semver.NewVersion(c.PythonVersion)
		if err != nil {
			return fmt.Errorf("python_version %q: %w", c.PythonVersion, err)
		}
		constraint, err := semver.NewConstraint(supportedPythons)
		if err != nil {
			return err
		}
		if !constraint.Check(v) {
			return fmt.Errorf("python_version %s is not %s", v, supportedPythons)
		}
	}

	for name := range c.Passes {
		if _, err := idioms.New(name); err != nil {
			return fmt.Errorf("passes: %w", err)
		}
	}
	for name, lines := range c.ContextLines {
		if _, err := idioms.New(name); err != nil {
			return fmt.Errorf("context_lines: %w", err)
		}
		if lines < 0 {
			return fmt.Errorf("context_lines: %s: negative line count %d", name, lines)
		}
	}
	return nil
}

// Disabled returns the set of disabled passes.
func (c Config) Disabled() map[string]bool {
	disabled := make(map[string]bool)
	for name, p := range c.Passes {
		if p.Disabled {
			disabled[name] = true
		}
	}
	return disabled
}

func (c Config) Grammar() pytree.Grammar {
	return pytree.Grammar{PrintFunction: c.PrintFunction}
}

// WriteConfig writes c to path as YAML.
func WriteConfig(path string, c Config) error {
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
