// Package config defines the configuration types and defaults for slyp.
package config

// Refold indentation modes for multi-line string concatenations.
const (
	RefoldFixed       = "fixed"
	RefoldSurrounding = "surrounding"
)

// Config is the top-level configuration.
type Config struct {
	Lint   LintConfig   `yaml:"lint" toml:"lint"`
	Fixer  FixerConfig  `yaml:"fixer" toml:"fixer"`
	Files  FilesConfig  `yaml:"files" toml:"files"`
	Runner RunnerConfig `yaml:"runner" toml:"runner"`
}

// LintConfig selects which diagnostics are reported. Entries are codes
// such as "E100" or category letters such as "W"; "all" in Enable turns
// off the default-disabled set.
type LintConfig struct {
	Disable []string `yaml:"disable" toml:"disable"`
	Enable  []string `yaml:"enable" toml:"enable"`
}

// FixerConfig holds rewrite settings.
type FixerConfig struct {
	// RefoldIndent is "fixed" or "surrounding".
	RefoldIndent string `yaml:"refold_indent" toml:"refold_indent"`
	RefoldOffset int    `yaml:"refold_offset" toml:"refold_offset"`
	IndentWidth  int    `yaml:"indent_width" toml:"indent_width"`
}

// FilesConfig controls file discovery.
type FilesConfig struct {
	Exclude  []string `yaml:"exclude" toml:"exclude"`
	UseGitLs bool     `yaml:"use_git_ls" toml:"use_git_ls"`
}

// RunnerConfig controls orchestration.
type RunnerConfig struct {
	Jobs     int    `yaml:"jobs" toml:"jobs"`
	CacheDir string `yaml:"cache_dir" toml:"cache_dir"`
	NoCache  bool   `yaml:"no_cache" toml:"no_cache"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Fixer: FixerConfig{
			RefoldIndent: RefoldFixed,
			RefoldOffset: 4,
			IndentWidth:  4,
		},
		Runner: RunnerConfig{
			CacheDir: ".slyp_cache",
		},
	}
}
