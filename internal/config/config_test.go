package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		DefaultVault: "personal",
		Vaults: map[string]string{
			"personal": "/home/me/notes",
			"work":     "/home/me/work",
		},
		Editor: "vim",
	}
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultVault != "personal" || loaded.Editor != "vim" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Vaults["work"] != "/home/me/work" {
		t.Errorf("vaults = %v", loaded.Vaults)
	}
}

func TestGetVaultPath(t *testing.T) {
	cfg := &Config{
		DefaultVault: "personal",
		Vaults:       map[string]string{"personal": "/notes"},
	}

	if p, err := cfg.GetVaultPath(""); err != nil || p != "/notes" {
		t.Errorf("default vault = %q, %v", p, err)
	}
	if _, err := cfg.GetVaultPath("missing"); err == nil {
		t.Error("missing vault did not error")
	}
	if _, err := (&Config{}).GetVaultPath(""); err == nil {
		t.Error("empty config did not error")
	}
}

func TestFindVaultRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "schema.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "Objectives", "Tasks")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindVaultRoot(nested)
	if err != nil {
		t.Fatalf("FindVaultRoot: %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(found); resolved != mustEval(t, root) {
		t.Errorf("found %q, want %q", found, root)
	}
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestConfigGetEditor(t *testing.T) {
	t.Run("configured editor wins", func(t *testing.T) {
		t.Setenv("EDITOR", "nano")
		cfg := &Config{Editor: "vim"}
		if got := cfg.GetEditor(); got != "vim" {
			t.Errorf("expected 'vim', got %q", got)
		}
	})

	t.Run("falls back to EDITOR env", func(t *testing.T) {
		t.Setenv("EDITOR", "nano")
		cfg := &Config{}
		if got := cfg.GetEditor(); got != "nano" {
			t.Errorf("expected 'nano', got %q", got)
		}
	})

	t.Run("empty when nothing configured", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		cfg := &Config{}
		if got := cfg.GetEditor(); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
