package wikilink

import (
	"strings"
	"testing"
)

func TestScanForms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Reference
	}{
		{
			name:    "bare",
			content: "see [[Ship v2]] for details",
			want:    Reference{Raw: "[[Ship v2]]", Target: "Ship v2", Offset: 4},
		},
		{
			name:    "heading",
			content: "[[Ship v2#Plan]]",
			want:    Reference{Raw: "[[Ship v2#Plan]]", Target: "Ship v2", Heading: "Plan"},
		},
		{
			name:    "alias",
			content: "[[Ship v2|the launch]]",
			want:    Reference{Raw: "[[Ship v2|the launch]]", Target: "Ship v2", Alias: "the launch"},
		},
		{
			name:    "heading and alias",
			content: "[[Ship v2#Plan|the plan]]",
			want:    Reference{Raw: "[[Ship v2#Plan|the plan]]", Target: "Ship v2", Heading: "Plan", Alias: "the plan"},
		},
		{
			name:    "markdown link",
			content: "read [the doc](Notes/Ship v2.md) now",
			want:    Reference{Raw: "[the doc](Notes/Ship v2.md)", Target: "Notes/Ship v2", Display: "the doc", Offset: 5, Markdown: true},
		},
		{
			name:    "quoted wikilink",
			content: `owner: "[[Freya]]"`,
			want:    Reference{Raw: `"[[Freya]]"`, Target: "Freya", Offset: 7, Quoted: true},
		},
		{
			name:    "target with md extension stripped",
			content: "[[Tasks/X.md]]",
			want:    Reference{Raw: "[[Tasks/X.md]]", Target: "Tasks/X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := Scan(tt.content)
			if len(refs) != 1 {
				t.Fatalf("got %d refs, want 1: %+v", len(refs), refs)
			}
			if refs[0] != tt.want {
				t.Errorf("ref = %+v, want %+v", refs[0], tt.want)
			}
		})
	}
}

func TestScanMultipleOrderedByOffset(t *testing.T) {
	content := "a [md](One.md) then [[Two]] and [[Three|t]]\n[[Four#h]]"
	refs := Scan(content)
	if len(refs) != 4 {
		t.Fatalf("got %d refs, want 4", len(refs))
	}
	targets := make([]string, len(refs))
	for i, r := range refs {
		targets[i] = r.Target
		if i > 0 && refs[i-1].Offset >= r.Offset {
			t.Errorf("refs not in offset order at %d", i)
		}
	}
	want := "One,Two,Three,Four"
	if strings.Join(targets, ",") != want {
		t.Errorf("targets = %v, want %s", targets, want)
	}
}

func TestScanSkipsTripleBracket(t *testing.T) {
	refs := Scan("[[[ref]]]")
	if len(refs) != 0 {
		t.Errorf("triple-bracket should not match, got %+v", refs)
	}
}

func TestScanIgnoresEmptyTarget(t *testing.T) {
	if refs := Scan("[[  ]]"); len(refs) != 0 {
		t.Errorf("empty target should not match, got %+v", refs)
	}
}

func TestLineNumber(t *testing.T) {
	content := "one\ntwo [[X]]\nthree"
	refs := Scan(content)
	if len(refs) != 1 {
		t.Fatalf("got %d refs", len(refs))
	}
	if line := LineNumber(content, refs[0].Offset); line != 2 {
		t.Errorf("line = %d, want 2", line)
	}
}

func TestParseExact(t *testing.T) {
	ref, ok := ParseExact(`"[[People/Freya|Freya]]"`)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ref.Target != "People/Freya" || ref.Alias != "Freya" || !ref.Quoted {
		t.Errorf("unexpected ref: %+v", ref)
	}

	if _, ok := ParseExact("just text"); ok {
		t.Error("plain text should not parse as a link")
	}
	if _, ok := ParseExact("[[A]] trailing"); ok {
		t.Error("trailing text should not parse as exact link")
	}
}

func TestRewritePreservesSuffixesAndForm(t *testing.T) {
	tests := []struct {
		content string
		newT    string
		want    string
	}{
		{"[[X]]", "Archive/X", "[[Archive/X]]"},
		{"[[X#Plan]]", "Archive/X", "[[Archive/X#Plan]]"},
		{"[[X|alias]]", "Archive/X", "[[Archive/X|alias]]"},
		{"[[X#Plan|alias]]", "Archive/X", "[[Archive/X#Plan|alias]]"},
		{"[doc](X.md)", "Archive/X", "[doc](Archive/X.md)"},
		{`"[[X]]"`, "Archive/X", `"[[Archive/X]]"`},
	}

	for _, tt := range tests {
		refs := Scan(tt.content)
		if len(refs) != 1 {
			t.Fatalf("scan %q: got %d refs", tt.content, len(refs))
		}
		if got := refs[0].Rewrite(tt.newT); got != tt.want {
			t.Errorf("Rewrite(%q, %q) = %q, want %q", tt.content, tt.newT, got, tt.want)
		}
	}
}

// Rewriting a match and rescanning it must resolve to the same new target
// with suffixes intact.
func TestRewriteRoundTrip(t *testing.T) {
	original := `See "[[Tasks/X#Plan|the plan]]" here`
	refs := Scan(original)
	if len(refs) != 1 {
		t.Fatalf("got %d refs", len(refs))
	}

	rewritten := refs[0].Rewrite("Archive/X")
	again := Scan(rewritten)
	if len(again) != 1 {
		t.Fatalf("rescan got %d refs", len(again))
	}
	if again[0].Target != "Archive/X" {
		t.Errorf("round-trip target = %q, want Archive/X", again[0].Target)
	}
	if again[0].Heading != "Plan" || again[0].Alias != "the plan" {
		t.Errorf("suffixes not preserved: %+v", again[0])
	}
	if !again[0].Quoted {
		t.Error("quote wrapping not preserved")
	}
}
