package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureGitignoreCreates(t *testing.T) {
	dir := t.TempDir()

	status, err := ensureGitignore(dir)
	if err != nil {
		t.Fatalf("ensureGitignore: %v", err)
	}
	if status != "created" {
		t.Fatalf("expected status 'created', got %q", status)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	for _, entry := range []string{".magpie/", ".trash/"} {
		if !strings.Contains(string(data), entry) {
			t.Errorf("expected .gitignore to list %s, got:\n%s", entry, data)
		}
	}
}

func TestEnsureGitignoreAppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(path, []byte("node_modules/\n.trash/\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	status, err := ensureGitignore(dir)
	if err != nil {
		t.Fatalf("ensureGitignore: %v", err)
	}
	if status != "updated" {
		t.Fatalf("expected status 'updated', got %q", status)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if !strings.Contains(content, "node_modules/") {
		t.Errorf("existing entries should survive, got:\n%s", content)
	}
	if !strings.Contains(content, ".magpie/") {
		t.Errorf("missing entry should be appended, got:\n%s", content)
	}
	if strings.Count(content, ".trash/") != 1 {
		t.Errorf("present entry should not be duplicated, got:\n%s", content)
	}
}

func TestEnsureGitignoreUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	original := ".magpie/\n.trash/\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	status, err := ensureGitignore(dir)
	if err != nil {
		t.Fatalf("ensureGitignore: %v", err)
	}
	if status != "unchanged" {
		t.Fatalf("expected status 'unchanged', got %q", status)
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("file should be untouched, got:\n%s", data)
	}
}
