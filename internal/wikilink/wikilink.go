// Package wikilink provides canonical scanning and rendering of inter-note
// links.
//
// Link grammar:
//
//	[[target]]
//	[[target#heading]]
//	[[target|alias]]
//	[[target#heading|alias]]
//	[display](target.md)
//
// Each form may additionally be wrapped in double quotes, as emitted by YAML
// serialization of frontmatter values. The scanner records byte offsets into
// the raw content so matches can be rewritten in place.
package wikilink

import (
	"regexp"
	"strings"
)

// Reference is one link match in a piece of content.
type Reference struct {
	// Raw is the full matched text, including quote wrapping if present.
	Raw string
	// Target is the link target stripped of brackets, heading, alias, and
	// any .md extension.
	Target string
	// Heading is the #fragment without the leading '#', if any.
	Heading string
	// Alias is the |alias text, if any.
	Alias string
	// Display is the [display] text of a markdown-form link.
	Display string

	// Offset is the byte offset of Raw within the scanned content.
	Offset int
	// Quoted is true when the match was double-quote wrapped.
	Quoted bool
	// Markdown is true for the [display](target.md) form.
	Markdown bool
}

// End returns the byte offset just past the matched text.
func (r Reference) End() int { return r.Offset + len(r.Raw) }

// wikiRe matches the [[...]] forms. Target excludes brackets, '|', '#', and
// newlines; heading and alias segments are optional.
var wikiRe = regexp.MustCompile(`\[\[([^\[\]|#\n]+)(#[^\]\[|\n]*)?(\|[^\]\[\n]*)?\]\]`)

// markdownRe matches [display](target.md).
var markdownRe = regexp.MustCompile(`\[([^\]\n]*)\]\(([^()\n]+\.md)\)`)

// Scan finds all link references in content, in offset order.
func Scan(content string) []Reference {
	var out []Reference

	for _, m := range wikiRe.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		// Skip [[[ref]]] array-ish syntax.
		if start > 0 && content[start-1] == '[' {
			continue
		}

		ref := Reference{
			Raw:    content[start:end],
			Target: CleanTarget(content[m[2]:m[3]]),
			Offset: start,
		}
		if ref.Target == "" {
			continue
		}
		if m[4] >= 0 {
			ref.Heading = strings.TrimSpace(strings.TrimPrefix(content[m[4]:m[5]], "#"))
		}
		if m[6] >= 0 {
			ref.Alias = strings.TrimSpace(strings.TrimPrefix(content[m[6]:m[7]], "|"))
		}
		out = append(out, applyQuoting(content, ref))
	}

	for _, m := range markdownRe.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		// A wikilink alias segment can look like [alias]](...) to this
		// regex; reject matches whose display text opens a wikilink.
		if strings.Contains(content[m[2]:m[3]], "[") {
			continue
		}
		if start > 0 && content[start-1] == '[' {
			continue
		}

		ref := Reference{
			Raw:      content[start:end],
			Display:  content[m[2]:m[3]],
			Target:   CleanTarget(content[m[4]:m[5]]),
			Offset:   start,
			Markdown: true,
		}
		if ref.Target == "" {
			continue
		}
		out = append(out, applyQuoting(content, ref))
	}

	sortByOffset(out)
	return out
}

// applyQuoting extends a match over a surrounding double-quote pair.
func applyQuoting(content string, ref Reference) Reference {
	start, end := ref.Offset, ref.Offset+len(ref.Raw)
	if start > 0 && end < len(content) && content[start-1] == '"' && content[end] == '"' {
		ref.Offset = start - 1
		ref.Raw = content[start-1 : end+1]
		ref.Quoted = true
	}
	return ref
}

// CleanTarget normalizes a raw link target: trims whitespace and strips a
// trailing .md extension.
func CleanTarget(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".md")
	return s
}

// ParseExact parses a string that is exactly one wikilink literal (optionally
// quoted), as stored in frontmatter values.
func ParseExact(s string) (ref Reference, ok bool) {
	s = strings.TrimSpace(s)
	trimmed := s
	quoted := false
	if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) && len(trimmed) >= 2 {
		trimmed = trimmed[1 : len(trimmed)-1]
		quoted = true
	}

	refs := Scan(trimmed)
	if len(refs) != 1 || refs[0].Offset != 0 || refs[0].End() != len(trimmed) {
		return Reference{}, false
	}
	ref = refs[0]
	ref.Quoted = quoted
	if quoted {
		ref.Raw = `"` + ref.Raw + `"`
	}
	return ref, true
}

// Rewrite renders the reference with a new target, preserving the original
// form: heading and alias suffixes verbatim, markdown vs wiki syntax, and
// quote wrapping.
func (r Reference) Rewrite(newTarget string) string {
	var s string
	if r.Markdown {
		s = "[" + r.Display + "](" + newTarget + ".md)"
	} else {
		s = "[[" + newTarget
		if r.Heading != "" {
			s += "#" + r.Heading
		}
		if r.Alias != "" {
			s += "|" + r.Alias
		}
		s += "]]"
	}
	if r.Quoted {
		s = `"` + s + `"`
	}
	return s
}

// LineNumber computes the 1-based line of an offset within content.
func LineNumber(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

func sortByOffset(refs []Reference) {
	// Insertion sort: the two scans each produce ordered output, so the
	// merge is nearly sorted.
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j-1].Offset > refs[j].Offset; j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
		}
	}
}
