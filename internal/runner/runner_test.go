package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/donaldgifford/slyp/internal/config"
)

const (
	cleanSrc   = "x = foo(a)\n"
	fixableSrc = "d = (value)\n"
	fixedSrc   = "d = value\n"
	lintSrc    = "x = foo(a + 1) if y else foo(a + 1)\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// run invokes Run with captured output, no cache, and dir as the
// project directory.
func run(t *testing.T, dir string, opts Options) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts.Dir = dir
	opts.NoCache = true
	opts.Stdout = &out
	opts.Stderr = &errOut
	code = Run(context.Background(), &opts)
	return code, out.String(), errOut.String()
}

func TestRunClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.py", cleanSrc)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}})
	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	if stdout != "" {
		t.Errorf("expected silent run, got %q", stdout)
	}
}

func TestRunVerbose(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.py", cleanSrc)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}, Verbosity: 1})
	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	for _, want := range []string{"slyp: processing " + path, "slyp: no changes to " + path, "ok\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("verbose output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunFixWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fix.py", fixableSrc)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}})
	if code != ExitFailure {
		t.Errorf("exit code: got %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stdout, "slyp: fixing "+path) {
		t.Errorf("missing fixing message: %q", stdout)
	}
	if got := readFile(t, path); got != fixedSrc {
		t.Errorf("file content: got %q, want %q", got, fixedSrc)
	}

	// A second run finds nothing left to do.
	code, _, _ = run(t, dir, Options{Files: []string{path}})
	if code != ExitOK {
		t.Errorf("second run exit code: got %d, want %d", code, ExitOK)
	}
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fix.py", fixableSrc)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}, Diff: true})
	if code != ExitFailure {
		t.Errorf("exit code: got %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stdout, "-d = (value)") || !strings.Contains(stdout, "+d = value") {
		t.Errorf("diff missing changed lines:\n%s", stdout)
	}
	if got := readFile(t, path); got != fixableSrc {
		t.Errorf("diff mode wrote the file: %q", got)
	}
}

func TestRunLintFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lint.py", lintSrc)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}})
	if code != ExitFailure {
		t.Errorf("exit code: got %d, want %d", code, ExitFailure)
	}
	want := path + ":1: "
	if !strings.HasPrefix(stdout, want) || !strings.Contains(stdout, "(W200)") {
		t.Errorf("diagnostic output: got %q", stdout)
	}
}

func TestRunDisable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lint.py", lintSrc)

	tests := []struct {
		name    string
		disable []string
	}{
		{"code", []string{"W200"}},
		{"category", []string{"W"}},
		{"comma list", []string{"E100,W200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := run(t, dir, Options{Files: []string{path}, Disable: tt.disable})
			if code != ExitOK {
				t.Errorf("exit code: got %d, want %d (%s)", code, ExitOK, stdout)
			}
		})
	}
}

func TestRunConfigDisable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lint.py", lintSrc)
	writeFile(t, dir, "slyp.yml", "lint:\n  disable: [W200]\n")

	code, stdout, _ := run(t, dir, Options{Files: []string{path}})
	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d (%s)", code, ExitOK, stdout)
	}
}

func TestRunOnly(t *testing.T) {
	tests := []struct {
		name     string
		only     string
		src      string
		wantCode int
		wantFile string
	}{
		{"lint skips fix", OnlyLint, fixableSrc, ExitOK, fixableSrc},
		{"fix skips lint", OnlyFix, lintSrc, ExitOK, lintSrc},
		{"fix applies", OnlyFix, fixableSrc, ExitFailure, fixedSrc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "a.py", tt.src)

			code, _, _ := run(t, dir, Options{Files: []string{path}, Only: tt.only})
			if code != tt.wantCode {
				t.Errorf("exit code: got %d, want %d", code, tt.wantCode)
			}
			if got := readFile(t, path); got != tt.wantFile {
				t.Errorf("file content: got %q, want %q", got, tt.wantFile)
			}
		})
	}
}

func TestRunInvalidOnly(t *testing.T) {
	code, _, stderr := run(t, t.TempDir(), Options{Only: "both"})
	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "--only") {
		t.Errorf("stderr: %q", stderr)
	}
}

func TestRunUnparsable(t *testing.T) {
	dir := t.TempDir()
	src := "def f(:\n"
	path := writeFile(t, dir, "bad.py", src)

	code, stdout, _ := run(t, dir, Options{Files: []string{path}, Verbosity: 1})
	if code != ExitFailure {
		t.Errorf("exit code: got %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stdout, "slyp: could not parse "+path) {
		t.Errorf("missing parse message: %q", stdout)
	}
	if got := readFile(t, path); got != src {
		t.Errorf("unparsable file was rewritten: %q", got)
	}
}

func TestRunDiscoversDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "pkg/a.py", fixableSrc)
	b := writeFile(t, dir, "pkg/sub/b.py", fixableSrc)
	notes := writeFile(t, dir, "pkg/notes.txt", fixableSrc)

	code, _, _ := run(t, dir, Options{})
	if code != ExitFailure {
		t.Errorf("exit code: got %d, want %d", code, ExitFailure)
	}
	for _, path := range []string{a, b} {
		if got := readFile(t, path); got != fixedSrc {
			t.Errorf("%s: got %q, want %q", path, got, fixedSrc)
		}
	}
	if got := readFile(t, notes); got != fixableSrc {
		t.Errorf("non-Python file was touched: %q", got)
	}
}

func TestRunResultOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"c.py", "a.py", "b.py"} {
		files = append(files, writeFile(t, dir, name, lintSrc))
	}

	_, stdout, _ := run(t, dir, Options{Files: files, Jobs: 3})
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), stdout)
	}
	for i, path := range files {
		if !strings.HasPrefix(lines[i], path+":") {
			t.Errorf("line %d: got %q, want prefix %q", i, lines[i], path)
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := run(t, t.TempDir(), Options{Files: []string{"/nonexistent/path/test.py"}})
	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if stderr == "" {
		t.Error("expected an error message")
	}
}

func TestRunNoFiles(t *testing.T) {
	code, _, stderr := run(t, t.TempDir(), Options{})
	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "no files") {
		t.Errorf("stderr: %q", stderr)
	}
}

func TestRunStdin(t *testing.T) {
	tests := []struct {
		name       string
		only       string
		input      string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "fix",
			only:       OnlyFix,
			input:      fixableSrc,
			wantCode:   ExitFailure,
			wantStdout: fixedSrc,
			wantStderr: "slyp: fixing -",
		},
		{
			name:       "fix unchanged",
			only:       OnlyFix,
			input:      cleanSrc,
			wantCode:   ExitOK,
			wantStdout: cleanSrc,
		},
		{
			name:       "lint",
			only:       OnlyLint,
			input:      lintSrc,
			wantCode:   ExitFailure,
			wantStdout: "-:1: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(context.Background(), &Options{
				Files:   []string{"-"},
				Only:    tt.only,
				Dir:     t.TempDir(),
				NoCache: true,
				Stdin:   strings.NewReader(tt.input),
				Stdout:  &stdout,
				Stderr:  &stderr,
			})
			if code != tt.wantCode {
				t.Errorf("exit code: got %d, want %d", code, tt.wantCode)
			}
			if tt.only == OnlyFix && stdout.String() != tt.wantStdout {
				t.Errorf("stdout: got %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.only == OnlyLint && !strings.HasPrefix(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout: got %q, want prefix %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr: got %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunStdinRequiresOnly(t *testing.T) {
	code, _, stderr := run(t, t.TempDir(), Options{Files: []string{"-"}, Stdin: strings.NewReader(cleanSrc)})
	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "--only") {
		t.Errorf("stderr: %q", stderr)
	}
}

func TestRunCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.py", cleanSrc)

	runCached := func() string {
		var stdout, stderr bytes.Buffer
		code := Run(context.Background(), &Options{
			Files:     []string{path},
			Dir:       dir,
			Verbosity: 2,
			Stdout:    &stdout,
			Stderr:    &stderr,
		})
		if code != ExitOK {
			t.Fatalf("exit code: got %d, want %d", code, ExitOK)
		}
		return stdout.String()
	}

	if out := runCached(); strings.Contains(out, "cache hit") {
		t.Errorf("first run hit the cache: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".slyp_cache", ".gitignore")); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
	if out := runCached(); !strings.Contains(out, "cache hit: "+path) {
		t.Errorf("second run missed the cache: %q", out)
	}

	// Changing the content invalidates the entry.
	writeFile(t, dir, "clean.py", "y = foo(b)\n")
	if out := runCached(); strings.Contains(out, "cache hit") {
		t.Errorf("modified file hit the cache: %q", out)
	}
}

func TestProcessRecoversPanic(t *testing.T) {
	p := newPipeline(&Options{}, config.DefaultConfig())
	r := p.process(panicFile{})
	if r.Success {
		t.Error("panicking file reported success")
	}
	texts := r.Texts(0)
	if len(texts) != 1 || texts[0] != "slyp error on 'boom.py': boom" {
		t.Errorf("messages: %q", texts)
	}
	if len(r.Texts(2)) != 2 {
		t.Error("expected a stack trace at verbosity 2")
	}
}

type panicFile struct{}

func (panicFile) Name() string               { return "boom.py" }
func (panicFile) ReadBytes() ([]byte, error) { panic("boom") }
func (panicFile) WriteBytes([]byte) error    { return nil }
func (panicFile) SHA() (string, error)       { return "", nil }

func TestResultJoin(t *testing.T) {
	a := Result{Success: true, Messages: []Message{{Text: "a", Verbosity: 0}}}
	b := Result{Success: false, Messages: []Message{{Text: "b", Verbosity: 1}}}

	got := a.Join(b)
	if got.Success {
		t.Error("join of a failure succeeded")
	}
	if texts := got.Texts(1); len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Errorf("messages: %q", texts)
	}
	if texts := got.Texts(0); len(texts) != 1 {
		t.Errorf("verbosity filter: %q", texts)
	}
}

func TestMergeLists(t *testing.T) {
	got := mergeLists([]string{"E100"}, []string{"W200, W201", "", "X"})
	want := []string{"E100", "W200", "W201", "X"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("mergeLists = %v, want %v", got, want)
	}
}
