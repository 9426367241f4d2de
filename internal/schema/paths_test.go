package schema

import "testing"

func TestOutputDirFromChain(t *testing.T) {
	reg := mustParse(t, `{
		"types": {
			"objective": {},
			"task": {"extends": "objective"}
		}
	}`)

	dir, err := reg.OutputDir("task")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "Objectives/Tasks" {
		t.Errorf("task dir = %q, want Objectives/Tasks", dir)
	}

	dir, _ = reg.OutputDir("objective")
	if dir != "Objectives" {
		t.Errorf("objective dir = %q, want Objectives", dir)
	}
}

func TestOutputDirExplicitNearestAncestorWins(t *testing.T) {
	reg := mustParse(t, `{
		"types": {
			"archive": {"output_dir": "Attic"},
			"box": {"extends": "archive"},
			"crate": {"extends": "box", "output_dir": "Basement/Crates"}
		}
	}`)

	dir, _ := reg.OutputDir("box")
	if dir != "Attic" {
		t.Errorf("box dir = %q, want Attic (inherited explicit)", dir)
	}

	dir, _ = reg.OutputDir("crate")
	if dir != "Basement/Crates" {
		t.Errorf("crate dir = %q, want own explicit value", dir)
	}
}

func TestOutputDirPluralOverride(t *testing.T) {
	reg := mustParse(t, `{
		"types": {
			"person": {"plural": "People"},
			"employee": {"extends": "person"}
		}
	}`)

	dir, _ := reg.OutputDir("employee")
	if dir != "People/Employees" {
		t.Errorf("employee dir = %q, want People/Employees", dir)
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"task", "tasks"},
		{"entry", "entries"},
		{"day", "days"},      // vowel before y
		{"category", "categories"},
		{"box", "boxs"},      // standard rule only; no -es special case
	}
	for _, tt := range tests {
		if got := Pluralize(tt.in); got != tt.want {
			t.Errorf("Pluralize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOwnedNotePath(t *testing.T) {
	got := OwnedNotePath("Objectives/Tasks", "Ship v2", "steps", "Write docs.md")
	want := "Objectives/Tasks/Ship v2/steps/Write docs.md"
	if got != want {
		t.Errorf("OwnedNotePath = %q, want %q", got, want)
	}
}

func TestOutputDirUnknownType(t *testing.T) {
	reg := mustParse(t, `{"types": {}}`)
	if _, err := reg.OutputDir("ghost"); err == nil {
		t.Error("expected error for unknown type")
	}
}
