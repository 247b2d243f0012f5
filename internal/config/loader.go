package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"slyp.yml",
	"slyp.yaml",
	".slyp.yml",
	".slyp.yaml",
	"pyproject.toml",
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. A pyproject.toml only counts when
// it has a [tool.slyp] table. It returns an empty string if no config
// file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if name == "pyproject.toml" && !hasToolTable(path) {
			continue
		}
		return path
	}
	return ""
}

// pyproject mirrors the parts of pyproject.toml that slyp reads.
type pyproject struct {
	Tool struct {
		Slyp *toml.Primitive `toml:"slyp"`
	} `toml:"tool"`
}

func hasToolTable(path string) bool {
	var p pyproject
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return false
	}
	return p.Tool.Slyp != nil
}

// Load reads and parses a slyp config file. If configPath is non-empty,
// that file is loaded directly. Otherwise, Load searches the current working
// directory using Discover. If no config file is found, DefaultConfig is
// returned.
//
// Partial files are supported: any fields not specified retain their
// default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Start from defaults so missing fields retain non-zero defaults.
	cfg := DefaultConfig()
	if strings.HasSuffix(configPath, ".toml") {
		err = decodeTOML(data, configPath, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// decodeTOML reads the [tool.slyp] table of a pyproject.toml, or a bare
// slyp TOML file with the settings at the top level.
func decodeTOML(data []byte, path string, cfg *Config) error {
	var p pyproject
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return err
	}
	if p.Tool.Slyp != nil {
		return md.PrimitiveDecode(*p.Tool.Slyp, cfg)
	}
	if filepath.Base(path) == "pyproject.toml" {
		return nil
	}
	_, err = toml.Decode(string(data), cfg)
	return err
}

// Validate checks settings that cannot be expressed by the file formats.
func (c *Config) Validate() error {
	switch c.Fixer.RefoldIndent {
	case RefoldFixed, RefoldSurrounding:
	default:
		return fmt.Errorf("fixer.refold_indent must be %q or %q, got %q",
			RefoldFixed, RefoldSurrounding, c.Fixer.RefoldIndent)
	}
	if c.Fixer.RefoldOffset < 0 {
		return fmt.Errorf("fixer.refold_offset must not be negative, got %d", c.Fixer.RefoldOffset)
	}
	if c.Fixer.IndentWidth <= 0 {
		return fmt.Errorf("fixer.indent_width must be positive, got %d", c.Fixer.IndentWidth)
	}
	if c.Runner.Jobs < 0 {
		return fmt.Errorf("runner.jobs must not be negative, got %d", c.Runner.Jobs)
	}
	return nil
}
