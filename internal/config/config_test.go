package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Fixer.RefoldIndent != RefoldFixed {
		t.Errorf("RefoldIndent: got %q, want %q", cfg.Fixer.RefoldIndent, RefoldFixed)
	}
	if cfg.Fixer.RefoldOffset != 4 {
		t.Errorf("RefoldOffset: got %d, want 4", cfg.Fixer.RefoldOffset)
	}
	if cfg.Fixer.IndentWidth != 4 {
		t.Errorf("IndentWidth: got %d, want 4", cfg.Fixer.IndentWidth)
	}
	if cfg.Runner.CacheDir != ".slyp_cache" {
		t.Errorf("CacheDir: got %q, want .slyp_cache", cfg.Runner.CacheDir)
	}
	if len(cfg.Lint.Disable) != 0 || len(cfg.Lint.Enable) != 0 {
		t.Errorf("Lint: got %+v, want empty", cfg.Lint)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")

	yaml := `lint:
  disable: [W102, W103]
  enable: [W201]
fixer:
  refold_indent: surrounding
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg.Lint.Disable, []string{"W102", "W103"}) {
		t.Errorf("Disable: got %v", cfg.Lint.Disable)
	}
	if !reflect.DeepEqual(cfg.Lint.Enable, []string{"W201"}) {
		t.Errorf("Enable: got %v", cfg.Lint.Enable)
	}
	if cfg.Fixer.RefoldIndent != RefoldSurrounding {
		t.Errorf("RefoldIndent: got %q, want %q", cfg.Fixer.RefoldIndent, RefoldSurrounding)
	}

	// Verify unspecified fields retain defaults.
	if cfg.Fixer.RefoldOffset != 4 {
		t.Errorf("RefoldOffset: got %d, want 4 (default)", cfg.Fixer.RefoldOffset)
	}
	if cfg.Runner.CacheDir != ".slyp_cache" {
		t.Errorf("CacheDir: got %q, want .slyp_cache (default)", cfg.Runner.CacheDir)
	}
}

func TestLoadNoConfigReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestDiscoverPriority(t *testing.T) {
	dir := t.TempDir()

	content := []byte("fixer:\n  indent_width: 4\n")
	names := []string{"slyp.yml", "slyp.yaml", ".slyp.yml", ".slyp.yaml"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	pyproject := []byte("[tool.slyp]\n[tool.slyp.lint]\ndisable = [\"E100\"]\n")
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), pyproject, 0o644); err != nil {
		t.Fatal(err)
	}

	// Each file wins until it is removed, in search order.
	for _, name := range append(names, "pyproject.toml") {
		got := Discover(dir)
		want := filepath.Join(dir, name)
		if got != want {
			t.Errorf("Discover = %q, want %q", got, want)
		}
		if err := os.Remove(want); err != nil {
			t.Fatal(err)
		}
	}

	if got := Discover(dir); got != "" {
		t.Errorf("Discover after removing all: got %q, want empty string", got)
	}
}

func TestDiscoverSkipsPyprojectWithoutTable(t *testing.T) {
	dir := t.TempDir()
	content := []byte("[project]\nname = \"demo\"\n\n[tool.black]\nline-length = 88\n")
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Discover(dir); got != "" {
		t.Errorf("Discover: got %q, want empty string", got)
	}
}

func TestLoadPyproject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")

	content := `[project]
name = "demo"

[tool.slyp.lint]
enable = ["all"]

[tool.slyp.fixer]
refold_offset = 8

[tool.slyp.files]
exclude = ["build/**"]
use_git_ls = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg.Lint.Enable, []string{"all"}) {
		t.Errorf("Enable: got %v", cfg.Lint.Enable)
	}
	if cfg.Fixer.RefoldOffset != 8 {
		t.Errorf("RefoldOffset: got %d, want 8", cfg.Fixer.RefoldOffset)
	}
	if cfg.Fixer.IndentWidth != 4 {
		t.Errorf("IndentWidth: got %d, want 4 (default)", cfg.Fixer.IndentWidth)
	}
	if !cfg.Files.UseGitLs {
		t.Error("UseGitLs: got false, want true")
	}
	if !reflect.DeepEqual(cfg.Files.Exclude, []string{"build/**"}) {
		t.Errorf("Exclude: got %v", cfg.Files.Exclude)
	}
}

func TestLoadBareTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slyp.toml")

	if err := os.WriteFile(path, []byte("[runner]\njobs = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Runner.Jobs != 3 {
		t.Errorf("Jobs: got %d, want 3", cfg.Runner.Jobs)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid yaml", "bad.yml", "{{{{not valid yaml"},
		{"invalid toml", "bad.toml", "[[[ nope"},
		{"bad refold mode", "mode.yml", "fixer:\n  refold_indent: hanging\n"},
		{"negative offset", "offset.yml", "fixer:\n  refold_offset: -1\n"},
		{"zero indent width", "width.yml", "fixer:\n  indent_width: 0\n"},
		{"negative jobs", "jobs.yml", "runner:\n  jobs: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Error("expected error for missing explicit path, got nil")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yml")

	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected default config for empty file, got %+v", cfg)
	}
}
