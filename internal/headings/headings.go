// Package headings extracts markdown headings for link-fragment checking.
package headings

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one markdown heading in a note body.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based within the full file
}

// Extract parses a note body and returns its headings. startLine is the
// 1-based line the body begins at within the full file, so reported lines
// account for the frontmatter block.
func Extract(body string, startLine int) []Heading {
	var out []Heading

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte(body)))
	lineStarts := computeLineStarts(body)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var b strings.Builder
		for child := h.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value([]byte(body)))
			}
		}
		headingText := strings.TrimSpace(b.String())
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		line := startLine
		if h.Lines().Len() > 0 {
			line = startLine + offsetToLine(lineStarts, h.Lines().At(0).Start)
		}
		out = append(out, Heading{Level: h.Level, Text: headingText, Line: line})
		return ast.WalkContinue, nil
	})

	return out
}

// Match reports whether a link fragment names one of the headings. The
// fragment matches on exact text or on slug equality, so "#project-plan"
// finds "Project Plan".
func Match(fragment string, hs []Heading) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return true
	}
	want := slug.Make(fragment)
	for _, h := range hs {
		if h.Text == fragment || slug.Make(h.Text) == want {
			return true
		}
	}
	return false
}

func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
