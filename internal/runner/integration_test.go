package runner_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// binaryPath builds the slyp binary and returns its path.
func binaryPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "slyp")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	cmd := exec.CommandContext(t.Context(), "go", "build", "-o", bin, "../../cmd/slyp")
	cmd.Dir = filepath.Join(projectRoot(t), "internal", "runner")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	return exitErr.ExitCode()
}

func TestIntegrationStdinFix(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "--only", "fix", "-")
	cmd.Dir = t.TempDir()
	cmd.Stdin = strings.NewReader("x = ((1, 2))\n")
	out, err := cmd.Output()
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if string(out) != "x = (1, 2)\n" {
		t.Errorf("stdin fix: got %q, want %q", string(out), "x = (1, 2)\n")
	}
}

func TestIntegrationStdinLint(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "--only", "lint", "--color", "never", "-")
	cmd.Dir = t.TempDir()
	cmd.Stdin = strings.NewReader("x = \"foo\" \"bar\"\n")
	out, err := cmd.Output()
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.HasPrefix(string(out), "-:1: ") || !strings.Contains(string(out), "(E100)") {
		t.Errorf("stdin lint: got %q", string(out))
	}
}

func TestIntegrationStdinNeedsOnly(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "-")
	cmd.Dir = t.TempDir()
	cmd.Stdin = strings.NewReader("x = 1\n")
	if code := exitCode(t, cmd.Run()); code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
}

func TestIntegrationFixFile(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("d = {\"a\":1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "--no-cache", path)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code: got %d, want 1\n%s", code, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "d = {\"a\": 1}\n" {
		t.Errorf("file after fix: got %q", string(data))
	}

	cmd = exec.CommandContext(t.Context(), bin, "--no-cache", path)
	cmd.Dir = dir
	if code := exitCode(t, cmd.Run()); code != 0 {
		t.Errorf("second run exit code: got %d, want 0", code)
	}
}

func TestIntegrationDiff(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("y = (value)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "--diff", "--no-cache", path)
	cmd.Dir = dir
	out, err := cmd.Output()
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	output := string(out)
	if !strings.Contains(output, "-y = (value)") || !strings.Contains(output, "+y = value") {
		t.Errorf("diff output: %s", output)
	}
}

func TestIntegrationList(t *testing.T) {
	bin := binaryPath(t)

	out, err := exec.CommandContext(t.Context(), bin, "--list").Output()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	output := string(out)
	if !strings.Contains(output, "E100: ") || !strings.Contains(output, "(disabled by default)") {
		t.Errorf("list output: %s", output)
	}
	if strings.Contains(output, "X001") {
		t.Error("list shows a hidden code")
	}
}

func TestIntegrationReference(t *testing.T) {
	bin := binaryPath(t)

	out, err := exec.CommandContext(t.Context(), bin, "reference").Output()
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if !strings.Contains(string(out), "E100") {
		t.Errorf("reference output: %s", out)
	}
}

func TestIntegrationVersion(t *testing.T) {
	bin := binaryPath(t)

	out, err := exec.CommandContext(t.Context(), bin, "--version").Output()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(string(out), "slyp ") {
		t.Errorf("version: got %q", string(out))
	}
}

func TestIntegrationMissingFile(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "/nonexistent/file.py")
	if code := exitCode(t, cmd.Run()); code != 2 {
		t.Errorf("missing file: got exit %d, want 2", code)
	}
}

func TestIntegrationExplicitConfig(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(configPath, []byte("lint:\n  disable: [E100]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "--config", configPath, "--only", "lint", "-")
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader("x = \"foo\" \"bar\"\n")
	out, err := cmd.CombinedOutput()
	if code := exitCode(t, err); code != 0 {
		t.Errorf("exit code: got %d, want 0\n%s", code, out)
	}
}

func TestIntegrationUseGitLsRejectsFiles(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "--use-git-ls", "a.py")
	cmd.Dir = t.TempDir()
	if code := exitCode(t, cmd.Run()); code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
}
