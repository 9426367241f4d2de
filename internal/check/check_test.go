package check

import (
	"testing"

	"github.com/aidanlsb/magpie/internal/parser"
	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/schema"
)

const auditSchema = `{
  "types": {
    "person": {},
    "objective": {
      "fields": {
        "status": {"prompt": "select", "enum": "status", "default": "raw"},
        "steps": {"prompt": "relation", "source": "task", "owned": true, "multiple": true}
      }
    },
    "task": {
      "recursive": true,
      "fields": {
        "parent": {"prompt": "relation", "source": "task"}
      }
    }
  },
  "enums": {"status": ["raw", "active", "done"]}
}`

func mustRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Parse([]byte(auditSchema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return reg
}

func mustNote(t *testing.T, rel, content string) *parser.Note {
	t.Helper()
	n, err := parser.ParseNote(rel, content)
	if err != nil {
		t.Fatalf("ParseNote(%q): %v", rel, err)
	}
	return n
}

func runChecker(t *testing.T, notes ...*parser.Note) []Issue {
	t.Helper()
	return New(mustRegistry(t), refindex.New(notes)).Run()
}

func issuesWithCode(issues []Issue, code string) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

func TestCleanVaultHasNoIssues(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Objectives/Ship.md", "---\ntype: objective\nstatus: active\n---\n\nSee [[Plan]].\n"),
		mustNote(t, "Plan.md", "# Plan\n"),
	)
	if len(issues) != 0 {
		t.Errorf("issues = %+v, want none", issues)
	}
}

func TestUnknownType(t *testing.T) {
	issues := runChecker(t, mustNote(t, "a.md", "---\ntype: ghost\n---\n"))
	got := issuesWithCode(issues, CodeUnknownType)
	if len(got) != 1 || got[0].Level != LevelError {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestDanglingAndAmbiguousReferences(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "a.md", "See [[Missing]] and [[Report]].\n"),
		mustNote(t, "Old/Report.md", "old\n"),
		mustNote(t, "New/Report.md", "new\n"),
	)
	if got := issuesWithCode(issues, CodeRefNotFound); len(got) != 1 {
		t.Errorf("dangling issues = %+v", got)
	}
	if got := issuesWithCode(issues, CodeRefAmbiguous); len(got) != 1 {
		t.Errorf("ambiguous issues = %+v", got)
	}
}

func TestHeadingFragment(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "a.md", "See [[Plan#Roadmap]] and [[Plan#Milestones]].\n"),
		mustNote(t, "Plan.md", "# Plan\n\n## Milestones\n"),
	)
	got := issuesWithCode(issues, CodeHeadingNotFound)
	if len(got) != 1 {
		t.Fatalf("heading issues = %+v", issues)
	}
	if got[0].Line != 1 {
		t.Errorf("line = %d, want 1", got[0].Line)
	}
}

func TestHierarchyCycle(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Tasks/a.md", "---\ntype: task\nparent: \"[[Tasks/b]]\"\n---\n"),
		mustNote(t, "Tasks/b.md", "---\ntype: task\nparent: \"[[Tasks/a]]\"\n---\n"),
	)
	got := issuesWithCode(issues, CodeCycle)
	if len(got) != 1 {
		t.Fatalf("cycle issues = %+v", issues)
	}
	if got[0].Level != LevelError {
		t.Errorf("level = %s, want error", got[0].Level)
	}
}

func TestHierarchyCycleThroughEarlierParentValue(t *testing.T) {
	// The cycle closes through the first of two parent values; the second
	// value must not mask it.
	issues := runChecker(t,
		mustNote(t, "Tasks/a.md", "---\ntype: task\nparent:\n  - \"[[Tasks/b]]\"\n  - \"[[Tasks/c]]\"\n---\n"),
		mustNote(t, "Tasks/b.md", "---\ntype: task\nparent: \"[[Tasks/a]]\"\n---\n"),
		mustNote(t, "Tasks/c.md", "---\ntype: task\n---\n"),
	)
	got := issuesWithCode(issues, CodeCycle)
	if len(got) != 1 {
		t.Fatalf("cycle issues = %+v", issues)
	}
	if got[0].Level != LevelError {
		t.Errorf("level = %s, want error", got[0].Level)
	}
}

func TestNoCycleForTree(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Tasks/a.md", "---\ntype: task\nparent: \"[[Tasks/b]]\"\n---\n"),
		mustNote(t, "Tasks/b.md", "---\ntype: task\n---\n"),
	)
	if got := issuesWithCode(issues, CodeCycle); len(got) != 0 {
		t.Errorf("cycle issues = %+v", got)
	}
}

func TestInstanceOwnershipConflict(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Objectives/A.md", "---\ntype: objective\nstatus: raw\nsteps:\n  - \"[[Shared]]\"\n---\n"),
		mustNote(t, "Objectives/B.md", "---\ntype: objective\nstatus: raw\nsteps:\n  - \"[[Shared]]\"\n---\n"),
		mustNote(t, "Tasks/Shared.md", "---\ntype: task\n---\n"),
	)
	got := issuesWithCode(issues, CodeOwnershipConflict)
	if len(got) != 1 || got[0].Path != "Tasks/Shared.md" {
		t.Fatalf("conflict issues = %+v", issues)
	}
}

func TestInvalidSelectOption(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Objectives/A.md", "---\ntype: objective\nstatus: bogus\n---\n"),
	)
	if got := issuesWithCode(issues, CodeInvalidOption); len(got) != 1 {
		t.Fatalf("option issues = %+v", issues)
	}
}

func TestMisplacedNote(t *testing.T) {
	issues := runChecker(t,
		mustNote(t, "Stray/Ship.md", "---\ntype: objective\nstatus: raw\n---\n"),
	)
	got := issuesWithCode(issues, CodeMisplaced)
	if len(got) != 1 {
		t.Fatalf("placement issues = %+v", issues)
	}
	if got[0].Level != LevelWarning {
		t.Errorf("level = %s, want warning", got[0].Level)
	}
}

func TestOwnedTypeSkipsPlacementCheck(t *testing.T) {
	// task is owned by objective.steps, so it never lives in a pooled
	// directory and placement is not checked.
	issues := runChecker(t,
		mustNote(t, "Objectives/Ship/steps/Fix.md", "---\ntype: task\n---\n"),
	)
	if got := issuesWithCode(issues, CodeMisplaced); len(got) != 0 {
		t.Errorf("placement issues = %+v", got)
	}
}
