package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/donaldgifford/slyp/internal/config"
)

func TestCacheRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".slyp_cache")
	c, err := Open(base, "cfg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if c.Contains("pkg/a.py", "abc") {
		t.Fatal("empty cache reported a hit")
	}
	if err := c.Add("pkg/a.py", "abc"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !c.Contains("pkg/a.py", "abc") {
		t.Error("expected hit after Add")
	}
	if !c.Contains("pkg/./a.py", "abc") {
		t.Error("expected hit for an equivalent path")
	}
	if c.Contains("pkg/a.py", "def") {
		t.Error("hit with a different content hash")
	}
	if c.Contains("pkg/b.py", "abc") {
		t.Error("hit for a different file")
	}

	if err := c.Remove("pkg/a.py"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c.Contains("pkg/a.py", "abc") {
		t.Error("hit after Remove")
	}
	if err := c.Remove("pkg/a.py"); err != nil {
		t.Errorf("removing a missing entry: %v", err)
	}
}

func TestCacheFingerprintsAreSeparate(t *testing.T) {
	base := t.TempDir()
	a, err := Open(base, "one")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(base, "two")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Add("x.py", "sha"); err != nil {
		t.Fatal(err)
	}
	if b.Contains("x.py", "sha") {
		t.Error("entry leaked across fingerprints")
	}
}

func TestCacheGitignore(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".slyp_cache")
	if _, err := Open(base, "cfg"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(base, ".gitignore"))
	if err != nil {
		t.Fatalf("reading .gitignore: %v", err)
	}
	if string(data) != "*\n" {
		t.Errorf(".gitignore = %q", data)
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	c, err := Open(t.TempDir(), "cfg")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Add("a.py", "sha"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor("a.py"), []byte{0xc1, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	if c.Contains("a.py", "sha") {
		t.Error("corrupt entry reported as hit")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if c.Contains("a.py", "sha") {
		t.Error("nil cache reported a hit")
	}
	if err := c.Add("a.py", "sha"); err != nil {
		t.Errorf("Add on nil cache: %v", err)
	}
	if err := c.Remove("a.py"); err != nil {
		t.Errorf("Remove on nil cache: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	fixer := config.DefaultConfig().Fixer

	a, err := Fingerprint(map[string]bool{"W201": true, "E100": true}, nil, fixer)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Fingerprint(map[string]bool{"E100": true, "W201": true}, map[string]bool{}, fixer)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("fingerprint depends on map order or nil-ness")
	}

	c, err := Fingerprint(map[string]bool{"E100": true}, nil, fixer)
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("fingerprint ignores disabled codes")
	}

	fixer.RefoldIndent = config.RefoldSurrounding
	d, err := Fingerprint(map[string]bool{"W201": true, "E100": true}, nil, fixer)
	if err != nil {
		t.Fatal(err)
	}
	if a == d {
		t.Error("fingerprint ignores fixer settings")
	}
}
