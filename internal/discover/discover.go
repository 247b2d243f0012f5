// Package discover resolves command-line arguments into the Python files
// slyp should process.
package discover

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every Python source file below a directory.
const DefaultPattern = "**/*.py"

// Options controls discovery.
type Options struct {
	// Dir is the directory searched when no arguments are given. Empty
	// means the working directory.
	Dir string

	// Exclude holds doublestar globs matched against slash-separated paths
	// relative to the searched directory, and against base names.
	Exclude []string

	// UseGitLs lists candidates with "git ls-files" instead of walking.
	UseGitLs bool
}

// Files returns the files to process. Explicit file arguments are kept as
// given; directory arguments expand to the Python files below them.
// Without arguments, Dir is searched, or git is asked for its tracked
// files when UseGitLs is set.
func Files(ctx context.Context, args []string, opts Options) ([]string, error) {
	if opts.UseGitLs {
		if len(args) > 0 {
			return nil, fmt.Errorf("--use-git-ls requires no filenames as arguments")
		}
		return gitFiles(ctx, opts)
	}

	if len(args) == 0 {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		return Walk(dir, opts.Exclude)
	}

	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		found, err := Walk(arg, opts.Exclude)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// Walk returns the files below dir matching DefaultPattern, sorted.
// Hidden directories and excluded paths are skipped.
func Walk(dir string, exclude []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || Excluded(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || Excluded(rel, exclude) {
			return nil
		}
		if ok, _ := doublestar.Match(DefaultPattern, rel); ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(out)
	return out, nil
}

// Excluded reports whether a slash-separated relative path matches any of
// the patterns. Patterns without a slash also match the base name.
func Excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func gitFiles(ctx context.Context, opts Options) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = opts.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	data, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		name := sc.Text()
		if name == "" || Excluded(name, opts.Exclude) {
			continue
		}
		path := name
		if opts.Dir != "" {
			path = filepath.Join(opts.Dir, filepath.FromSlash(name))
		}
		if IsPython(path) {
			out = append(out, path)
		}
	}
	return out, sc.Err()
}

// IsPython reports whether path is a regular file that is either named
// *.py or is an executable script whose shebang mentions python.
// Symlinks and special files are never Python.
func IsPython(path string) bool {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if strings.HasSuffix(path, ".py") {
		return true
	}
	if info.Mode().Perm()&0o111 == 0 {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(line, "#!") && strings.Contains(line, "python")
}
