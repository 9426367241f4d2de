// Package testutil provides reusable vault fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path   string
	t      *testing.T
	schema string
	files  map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithSchema sets the schema.json content for the vault.
func (v *TestVault) WithSchema(schemaJSON string) *TestVault {
	v.schema = schemaJSON
	return v
}

// WithNote adds a markdown file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithNote(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// Build creates the vault directory and all configured files.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()

	if v.schema != "" {
		v.writeFile("schema.json", v.schema)
	}
	for path, content := range v.files {
		v.writeFile(path, content)
	}

	return v
}

func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		v.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// WriteFile writes a file into an already-built vault.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

// ReadFile reads a file from the vault.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	content, err := os.ReadFile(filepath.Join(v.Path, filepath.FromSlash(relPath)))
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	_, err := os.Stat(filepath.Join(v.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// MinimalSchema returns a minimal valid schema.json content.
func MinimalSchema() string {
	return `{"types": {}}`
}

// ObjectiveTaskSchema returns a schema exercising inheritance, enums,
// relations, and ownership.
func ObjectiveTaskSchema() string {
	return `{
  "types": {
    "person": {},
    "objective": {
      "fields": {
        "status": {"prompt": "select", "enum": "status", "default": "raw"},
        "owner": {"prompt": "relation", "source": "person", "format": "wikilink"}
      }
    },
    "task": {
      "extends": "objective",
      "recursive": true,
      "fields": {
        "status": {"default": "inbox"},
        "parent": {"prompt": "relation", "source": "task"}
      }
    }
  },
  "enums": {"status": ["raw", "inbox", "active", "done"]}
}`
}
