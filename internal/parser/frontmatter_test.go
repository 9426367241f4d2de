package parser

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	content := "---\ntype: task\nstatus: inbox\n---\n\nBody text [[link]]\n"
	fmText, body, bodyOffset, ok := Split(content)
	if !ok {
		t.Fatal("expected frontmatter")
	}
	if !strings.Contains(fmText, "type: task") {
		t.Errorf("frontmatter text = %q", fmText)
	}
	if body != "\nBody text [[link]]\n" {
		t.Errorf("body = %q", body)
	}
	if content[bodyOffset:] != body {
		t.Errorf("bodyOffset %d does not point at body", bodyOffset)
	}
}

func TestSplitNoFrontmatter(t *testing.T) {
	_, body, offset, ok := Split("just a body\n")
	if ok || offset != 0 || body != "just a body\n" {
		t.Errorf("unexpected split of plain body: ok=%v offset=%d body=%q", ok, offset, body)
	}
}

func TestSplitUnclosedFrontmatter(t *testing.T) {
	content := "---\ntype: task\nno closing"
	_, body, _, ok := Split(content)
	if ok {
		t.Error("unclosed block should not count as frontmatter")
	}
	if body != content {
		t.Errorf("body = %q, want full content", body)
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, err := ParseFrontmatter("---\ntype: task\nstatus: inbox\nparent: \"[[Big Task]]\"\n---\nbody\n")
	if err != nil {
		t.Fatal(err)
	}
	if fm.Type != "task" {
		t.Errorf("type = %q, want task", fm.Type)
	}
	if s, _ := fm.StringField("status"); s != "inbox" {
		t.Errorf("status = %q", s)
	}
	if s, _ := fm.StringField("parent"); s != "[[Big Task]]" {
		t.Errorf("parent = %q", s)
	}
	if fm.Has("type") {
		t.Error("'type' must not appear among plain fields")
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	fm, err := ParseFrontmatter("no metadata here\n")
	if err != nil || fm != nil {
		t.Errorf("fm=%v err=%v, want nil/nil", fm, err)
	}
}

func TestParseFrontmatterInvalidYAML(t *testing.T) {
	_, err := ParseFrontmatter("---\n: : :\n  bad\n---\n")
	if err == nil {
		t.Error("expected YAML error")
	}
}

func TestSerializeTypeFirstAndOrdered(t *testing.T) {
	out, err := Serialize("task",
		map[string]interface{}{
			"due":    "2026-01-15",
			"status": "inbox",
			"zextra": "x",
		},
		[]string{"status", "due"},
		"The body.\n")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(out, "\n")
	if lines[0] != "---" {
		t.Fatalf("output = %q", out)
	}
	if !strings.HasPrefix(lines[1], "type:") {
		t.Errorf("type must be serialized first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "status:") || !strings.HasPrefix(lines[3], "due:") {
		t.Errorf("fields not in schema order: %q / %q", lines[2], lines[3])
	}
	if !strings.HasPrefix(lines[4], "zextra:") {
		t.Errorf("unknown fields must follow: %q", lines[4])
	}
	if !strings.Contains(out, "---\n\nThe body.\n") {
		t.Errorf("body must follow a blank line:\n%s", out)
	}
}

func TestSerializeQuotesWikilinkValues(t *testing.T) {
	out, err := Serialize("task",
		map[string]interface{}{"parent": "[[Big Task]]"},
		[]string{"parent"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"[[Big Task]]"`) {
		t.Errorf("wikilink value must be quoted for YAML safety:\n%s", out)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	out, err := Serialize("task",
		map[string]interface{}{"status": "inbox", "parent": "[[Other]]"},
		[]string{"status", "parent"}, "body\n")
	if err != nil {
		t.Fatal(err)
	}

	fm, err := ParseFrontmatter(out)
	if err != nil {
		t.Fatal(err)
	}
	if fm.Type != "task" {
		t.Errorf("round-trip type = %q", fm.Type)
	}
	if s, _ := fm.StringField("parent"); s != "[[Other]]" {
		t.Errorf("round-trip parent = %q", s)
	}
}
