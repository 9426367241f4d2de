// Package parser handles splitting, parsing, and serializing markdown notes.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter is a note's parsed YAML metadata block.
type Frontmatter struct {
	// Type is the note's declared type (the 'type' key), if present.
	Type string

	// Fields holds all other keys as decoded YAML values.
	Fields map[string]interface{}

	// Raw is the frontmatter text between the delimiters.
	Raw string

	// BodyOffset is the byte offset within the original content where the
	// body begins (just past the closing delimiter line). The reference
	// index uses it to classify matches as frontmatter or body.
	BodyOffset int
}

// Has reports whether a field key is present.
func (fm *Frontmatter) Has(key string) bool {
	_, ok := fm.Fields[key]
	return ok
}

// StringField returns a field's value as a string, if it is one.
func (fm *Frontmatter) StringField(key string) (string, bool) {
	v, ok := fm.Fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Split separates content into a frontmatter block and body without parsing
// the YAML. hasFM is false when the content does not start with the
// delimiter; an opened but unclosed block is treated as all body.
func Split(content string) (fmText string, body string, bodyOffset int, hasFM bool) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != delimiter {
		return "", content, 0, false
	}

	offset := len(lines[0])
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == delimiter {
			fmStart := len(lines[0])
			bodyStart := offset + len(lines[i])
			return content[fmStart:offset], content[bodyStart:], bodyStart, true
		}
		offset += len(lines[i])
	}

	return "", content, 0, false
}

// ParseFrontmatter parses the YAML frontmatter of a note's content.
// Returns nil (and no error) when the content has no frontmatter block.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	fmText, _, bodyOffset, ok := Split(content)
	if !ok {
		return nil, nil
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal([]byte(fmText), &data); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	// Empty or comment-only frontmatter decodes to nil; it still counts as
	// present because it shifts body offsets.
	if data == nil {
		data = map[string]interface{}{}
	}

	fm := &Frontmatter{
		Fields:     make(map[string]interface{}, len(data)),
		Raw:        fmText,
		BodyOffset: bodyOffset,
	}
	for key, value := range data {
		if key == "type" {
			if s, ok := value.(string); ok {
				fm.Type = s
			}
			continue
		}
		fm.Fields[key] = value
	}

	return fm, nil
}
