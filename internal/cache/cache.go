// Package cache remembers which files passed every check, so unchanged
// files can be skipped on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/donaldgifford/slyp/internal/codes"
	"github.com/donaldgifford/slyp/internal/config"
)

// ContractVersion changes whenever rule behavior changes in a way that
// invalidates earlier passing results.
const ContractVersion = "1.6"

// schemaVersion is bumped when the entry layout changes.
const schemaVersion uint16 = 1

// Entry is the record stored for a passing file.
type Entry struct {
	Schema uint16
	Path   string
	SHA    string
}

// Cache is a directory of passing-file entries for one configuration.
// It is safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open prepares the cache under baseDir for the configuration identified
// by fingerprint. The base directory gets a .gitignore ignoring itself.
func Open(baseDir, fingerprint string) (*Cache, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	ignore := filepath.Join(baseDir, ".gitignore")
	if _, err := os.Stat(ignore); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(ignore, []byte("*\n"), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", ignore, err)
		}
	}
	return &Cache{dir: filepath.Join(baseDir, "passing_files", fingerprint)}, nil
}

func (c *Cache) pathFor(name string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(name)))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, key[:2], key+".mp")
}

// Contains reports whether name was recorded as passing with content sha.
// A missing or unreadable entry is a miss.
func (c *Cache) Contains(name, sha string) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(name))
	if err != nil {
		return false
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return false
	}
	return e.Schema == schemaVersion && e.Path == filepath.Clean(name) && e.SHA == sha
}

// Add records name as passing with content sha.
func (c *Cache) Add(name, sha string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(&Entry{Schema: schemaVersion, Path: filepath.Clean(name), SHA: sha})
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Remove forgets name.
func (c *Cache) Remove(name string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.pathFor(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// fingerprintInput is encoded to identify a configuration.
type fingerprintInput struct {
	Contract string
	Codes    []string
	Disabled []string
	Enabled  []string
	Fixer    config.FixerConfig
}

// Fingerprint identifies the settings that affect results. Two runs share
// cache entries only when their fingerprints match.
func Fingerprint(disabled, enabled map[string]bool, fixer config.FixerConfig) (string, error) {
	in := fingerprintInput{
		Contract: ContractVersion,
		Codes:    codes.Known(),
		Disabled: sortedKeys(disabled),
		Enabled:  sortedKeys(enabled),
		Fixer:    fixer,
	}
	data, err := msgpack.Marshal(&in)
	if err != nil {
		return "", fmt.Errorf("encoding fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
