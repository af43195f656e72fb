package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ThemeFixture describes one theme folder written by WriteThemeTree. Files
// maps slash-separated relative paths to their contents. Manifest is written
// under ManifestFile when both are set.
type ThemeFixture struct {
	Dir          string
	ManifestFile string
	Manifest     string
	Files        map[string]string
}

// WriteThemeTree creates a themes base directory in t.TempDir() holding one
// subfolder per fixture and returns its path.
func WriteThemeTree(t *testing.T, fixtures ...ThemeFixture) string {
	t.Helper()

	base := t.TempDir()
	for _, fx := range fixtures {
		dir := filepath.Join(base, fx.Dir)
		MustMkdirAll(t, dir)
		if fx.ManifestFile != "" {
			MustWriteFile(t, filepath.Join(dir, fx.ManifestFile), fx.Manifest)
		}
		for rel, content := range fx.Files {
			MustWriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
		}
	}
	return base
}

// NewDir creates a temporary directory populated with files and returns it.
func NewDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustMkdirAll creates dir and any missing parents.
func MustMkdirAll(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	MustWriteFile(t, path, string(data))
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
