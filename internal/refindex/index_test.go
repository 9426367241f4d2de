package refindex

import (
	"errors"
	"testing"

	"github.com/aidanlsb/magpie/internal/parser"
	"github.com/aidanlsb/magpie/internal/schema"
)

func mustNote(t *testing.T, rel, content string) *parser.Note {
	t.Helper()
	n, err := parser.ParseNote(rel, content)
	if err != nil {
		t.Fatalf("ParseNote(%q): %v", rel, err)
	}
	return n
}

func testIndex(t *testing.T) *Index {
	t.Helper()
	return New([]*parser.Note{
		mustNote(t, "Tasks/Write docs.md", "---\ntype: task\n---\n\nSee [[Ship v2]].\n"),
		mustNote(t, "Objectives/Ship v2.md", "---\ntype: objective\nsteps:\n  - \"[[Tasks/Write docs]]\"\n---\n\nBody.\n"),
		mustNote(t, "People/Freya.md", "---\ntype: person\n---\n"),
		mustNote(t, "Old/Report.md", "# Old report\n"),
		mustNote(t, "Archive/Report.md", "# Archived report\n"),
	})
}

func TestResolveExactPath(t *testing.T) {
	ix := testIndex(t)

	for _, target := range []string{"Old/Report", "Old/Report.md"} {
		rel, err := ix.Resolve(target)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", target, err)
		}
		if rel != "Old/Report.md" {
			t.Errorf("Resolve(%q) = %q, want Old/Report.md", target, rel)
		}
	}
}

func TestResolveUniqueBaseName(t *testing.T) {
	ix := testIndex(t)

	rel, err := ix.Resolve("Freya")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rel != "People/Freya.md" {
		t.Errorf("Resolve(Freya) = %q, want People/Freya.md", rel)
	}
}

func TestResolveAmbiguousBaseName(t *testing.T) {
	ix := testIndex(t)

	_, err := ix.Resolve("Report")
	var amb *AmbiguousReferenceError
	if !errors.As(err, &amb) {
		t.Fatalf("Resolve(Report) err = %v, want AmbiguousReferenceError", err)
	}
	want := []string{"Archive/Report.md", "Old/Report.md"}
	if len(amb.Candidates) != 2 || amb.Candidates[0] != want[0] || amb.Candidates[1] != want[1] {
		t.Errorf("candidates = %v, want %v", amb.Candidates, want)
	}
}

func TestResolvePathBeatsBaseName(t *testing.T) {
	// An exact-path match wins even when the base name also exists elsewhere.
	ix := New([]*parser.Note{
		mustNote(t, "Report.md", "root"),
		mustNote(t, "Old/Report.md", "nested"),
	})

	rel, err := ix.Resolve("Report")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rel != "Report.md" {
		t.Errorf("Resolve(Report) = %q, want Report.md", rel)
	}
}

func TestResolveSlashedTargetNeverFallsBack(t *testing.T) {
	ix := testIndex(t)

	_, err := ix.Resolve("Wrong/Freya")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve(Wrong/Freya) err = %v, want NotFoundError", err)
	}
}

func TestResolveArgSlugFallback(t *testing.T) {
	ix := testIndex(t)

	rel, err := ix.ResolveArg("freya")
	if err != nil {
		t.Fatalf("ResolveArg: %v", err)
	}
	if rel != "People/Freya.md" {
		t.Errorf("ResolveArg(freya) = %q, want People/Freya.md", rel)
	}

	// Link resolution must not use the slug fallback.
	if _, err := ix.Resolve("freya"); err == nil {
		t.Error("Resolve(freya) succeeded, want not-found")
	}
}

func TestScanNoteClassifiesFrontmatter(t *testing.T) {
	ix := testIndex(t)
	n, _ := ix.Note("Objectives/Ship v2.md")

	refs := ix.ScanNote(n)
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	ref := refs[0]
	if !ref.InFrontmatter {
		t.Error("reference in steps field not classified as frontmatter")
	}
	if ref.TargetRel != "Tasks/Write docs.md" {
		t.Errorf("TargetRel = %q, want Tasks/Write docs.md", ref.TargetRel)
	}
}

func TestReferencesTo(t *testing.T) {
	ix := testIndex(t)

	refs := ix.ReferencesTo("Objectives/Ship v2")
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	if refs[0].SourceRel != "Tasks/Write docs.md" {
		t.Errorf("SourceRel = %q, want Tasks/Write docs.md", refs[0].SourceRel)
	}
	if refs[0].InFrontmatter {
		t.Error("body reference classified as frontmatter")
	}
	if refs[0].Line != 5 {
		t.Errorf("Line = %d, want 5", refs[0].Line)
	}
}

const corpusSchema = `{
  "types": {
    "person": {},
    "objective": {
      "fields": {
        "steps": {
          "prompt": "relation",
          "source": "task",
          "owned": true,
          "multiple": true
        }
      }
    },
    "task": {"extends": "objective"}
  }
}`

func corpusRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Parse([]byte(corpusSchema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return reg
}

func TestBuildCorpus(t *testing.T) {
	reg := corpusRegistry(t)
	ix := testIndex(t)

	c := BuildCorpus(reg, ix)
	if c.TypeCounts["task"] != 1 || c.TypeCounts["objective"] != 1 || c.TypeCounts["person"] != 1 {
		t.Errorf("TypeCounts = %v", c.TypeCounts)
	}
	// Ship v2's steps field claims the task note.
	if c.OwnedCounts["task"] != 1 {
		t.Errorf("OwnedCounts[task] = %d, want 1", c.OwnedCounts["task"])
	}
	if c.OwnedCounts["objective"] != 0 {
		t.Errorf("OwnedCounts[objective] = %d, want 0", c.OwnedCounts["objective"])
	}
}

func TestFindInstanceConflicts(t *testing.T) {
	reg := corpusRegistry(t)
	ix := New([]*parser.Note{
		mustNote(t, "Objectives/A.md", "---\ntype: objective\nsteps:\n  - \"[[Shared]]\"\n---\n"),
		mustNote(t, "Objectives/B.md", "---\ntype: objective\nsteps:\n  - \"[[Shared]]\"\n---\n"),
		mustNote(t, "Tasks/Shared.md", "---\ntype: task\n---\n"),
	})

	conflicts := ix.FindInstanceConflicts(reg)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	c := conflicts[0]
	if c.ChildRel != "Tasks/Shared.md" {
		t.Errorf("ChildRel = %q, want Tasks/Shared.md", c.ChildRel)
	}
	if len(c.Claims) != 2 {
		t.Errorf("got %d claims, want 2", len(c.Claims))
	}
}

func TestNoConflictForSingleOwner(t *testing.T) {
	reg := corpusRegistry(t)
	ix := New([]*parser.Note{
		mustNote(t, "Objectives/A.md", "---\ntype: objective\nsteps:\n  - \"[[Solo]]\"\n---\n"),
		mustNote(t, "Tasks/Solo.md", "---\ntype: task\n---\n"),
	})

	if conflicts := ix.FindInstanceConflicts(reg); len(conflicts) != 0 {
		t.Errorf("got %d conflicts, want 0", len(conflicts))
	}
}
