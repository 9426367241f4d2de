package vault_test

import (
	"sort"
	"testing"

	"github.com/aidanlsb/magpie/internal/testutil"
	"github.com/aidanlsb/magpie/internal/vault"
)

func TestCollectNotesSkipsHiddenAndNonMarkdown(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithSchema(testutil.MinimalSchema()).
		WithNote("Tasks/Write docs.md", "---\ntype: task\n---\n\nBody.\n").
		WithNote("Notes/plain.md", "No frontmatter here.\n").
		WithNote(".magpie/backups/20260101-000000/Tasks/Write docs.md", "---\ntype: task\n---\n").
		WithNote(".trash/gone.md", "---\ntype: task\n---\n").
		WithNote(".git/config.md", "not a note").
		WithNote("assets/diagram.txt", "not markdown").
		Build()

	notes, failures, err := vault.CollectNotes(tv.Path)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}

	var got []string
	for _, n := range notes {
		got = append(got, n.RelPath)
	}
	sort.Strings(got)

	want := []string{"Notes/plain.md", "Tasks/Write docs.md"}
	if len(got) != len(want) {
		t.Fatalf("collected %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collected %v, want %v", got, want)
		}
	}
}

func TestCollectNotesReportsUnparseableFiles(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Good.md", "---\ntype: task\n---\n").
		WithNote("Bad.md", "---\ntype: [unclosed\n---\n").
		Build()

	notes, failures, err := vault.CollectNotes(tv.Path)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}

	if len(notes) != 1 || notes[0].RelPath != "Good.md" {
		t.Fatalf("expected only Good.md to parse, got %d notes", len(notes))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].RelPath != "Bad.md" || failures[0].Err == nil {
		t.Fatalf("unexpected failure record: %+v", failures[0])
	}
}

func TestCollectNotesUsesForwardSlashPaths(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Deep/Nested/Dir/note.md", "---\ntype: task\n---\n").
		Build()

	notes, _, err := vault.CollectNotes(tv.Path)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].RelPath != "Deep/Nested/Dir/note.md" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}
