// Package testutil provides shared test helpers: golden-file cases under
// testdata/ and text fixtures.
package testutil

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/donaldgifford/slyp/internal/config"
	"github.com/donaldgifford/slyp/pkg/diff"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// Golden file names inside a case directory.
const (
	InputFile    = "input.py"
	ExpectedFile = "expected.py"
	ConfigFile   = "slyp.yml"
)

// FixFunc rewrites Python source with the given fixer settings.
type FixFunc func(src []byte, cfg *config.FixerConfig) ([]byte, error)

// Case is one golden directory.
type Case struct {
	Dir      string
	Input    []byte
	Expected []byte
	Config   *config.Config
}

// LoadCase reads dir. A missing expected.py means the input must come
// back unchanged; a slyp.yml next to the input overrides the defaults.
func LoadCase(dir string) (*Case, error) {
	c := &Case{Dir: dir, Config: config.DefaultConfig()}

	var err error
	if c.Input, err = os.ReadFile(filepath.Join(dir, InputFile)); err != nil {
		return nil, err
	}

	c.Expected, err = os.ReadFile(filepath.Join(dir, ExpectedFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.Expected = c.Input
	case err != nil:
		return nil, err
	}

	cfgPath := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		if c.Config, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RunGolden runs the golden case in dir: fixFn is applied to input.py and
// the result compared against expected.py. Mismatches are reported as a
// unified diff.
func RunGolden(t *testing.T, dir string, fixFn FixFunc) {
	t.Helper()

	c, err := LoadCase(dir)
	if err != nil {
		t.Fatalf("loading golden case %s: %v", dir, err)
	}

	actual, err := fixFn(c.Input, &c.Config.Fixer)
	if err != nil {
		t.Fatalf("fixing %s: %v", dir, err)
	}

	if *Update {
		expectedPath := filepath.Join(dir, ExpectedFile)
		if err := os.WriteFile(expectedPath, actual, 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	if string(actual) != string(c.Expected) {
		t.Errorf("output mismatch for %s:\n%s", dir,
			diff.Unified(ExpectedFile, string(c.Expected), string(actual)))
	}
}

// RunGoldenDir runs RunGolden for every case directory under testdataDir
// as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, fixFn FixFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			RunGolden(t, filepath.Join(testdataDir, entry.Name()), fixFn)
		})
	}
}
