// Package watch re-runs a callback when Python files below a directory
// change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/donaldgifford/slyp/internal/discover"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 250 * time.Millisecond

// Options configures Run.
type Options struct {
	Dir      string
	Debounce time.Duration

	// Exclude holds discover-style globs relative to Dir.
	Exclude []string

	// OnChange receives the sorted paths of the Python files that were
	// created or written since the last call. Removed files are left out.
	OnChange func(paths []string)
}

// Run watches Dir recursively until ctx is done. New directories are
// picked up as they appear; hidden ones are skipped.
func Run(ctx context.Context, opts Options) error {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return err
	}
	root = filepath.Clean(root)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, root, root); err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					_ = addRecursive(w, root, path)
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !wanted(root, path, opts.Exclude) {
				continue
			}

			pending[path] = true
			timer.Reset(debounce)

		case <-timer.C:
			changed := existing(pending)
			clear(pending)
			if len(changed) > 0 && opts.OnChange != nil {
				opts.OnChange(changed)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// wanted reports whether path is a Python file that is not excluded.
func wanted(root, path string, exclude []string) bool {
	if filepath.Ext(path) != ".py" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !discover.Excluded(filepath.ToSlash(rel), exclude)
}

// existing returns the sorted paths that are still regular files.
func existing(paths map[string]bool) []string {
	out := make([]string, 0, len(paths))
	for p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
