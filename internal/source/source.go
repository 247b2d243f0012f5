// Package source gives the runner a uniform view of the files it
// processes, whether they live on disk or arrive on standard input.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// StdinName is the name used for input read from standard input.
const StdinName = "-"

// File is one unit of input. Content is read lazily and at most once;
// the SHA is computed over the content as last read or written.
type File interface {
	Name() string
	ReadBytes() ([]byte, error)
	WriteBytes(content []byte) error
	SHA() (string, error)
}

// Disk is a file on the local filesystem.
type Disk struct {
	path string

	mu      sync.Mutex
	content []byte
	loaded  bool
	sha     string
}

// NewDisk returns a File for path. Nothing is read until needed.
func NewDisk(path string) *Disk {
	return &Disk{path: path}
}

// Name returns the path as given.
func (f *Disk) Name() string { return f.path }

// ReadBytes returns the file content.
func (f *Disk) ReadBytes() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.content, nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	f.content, f.loaded = data, true
	return data, nil
}

// WriteBytes replaces the file content, keeping its permissions.
func (f *Disk) WriteBytes(content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.path, content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	f.content, f.loaded = content, true
	f.sha = ""
	return nil
}

// SHA returns the hex SHA-256 of the content.
func (f *Disk) SHA() (string, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sha == "" {
		f.sha = digest(data)
	}
	return f.sha, nil
}

// Stdio reads its content from one stream and writes it to another. It
// stands for "-" on the command line.
type Stdio struct {
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	content []byte
	loaded  bool
}

// NewStdio returns a File reading from in and writing to out.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{in: in, out: out}
}

// Name returns StdinName.
func (f *Stdio) Name() string { return StdinName }

// ReadBytes reads the whole input on first use.
func (f *Stdio) ReadBytes() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.content, nil
	}
	data, err := io.ReadAll(f.in)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	f.content, f.loaded = data, true
	return data, nil
}

// WriteBytes writes content to the output stream.
func (f *Stdio) WriteBytes(content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.out.Write(content); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	f.content, f.loaded = content, true
	return nil
}

// SHA returns the hex SHA-256 of the content.
func (f *Stdio) SHA() (string, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return "", err
	}
	return digest(data), nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
