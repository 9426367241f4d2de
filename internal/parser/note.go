package parser

import (
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Note is one parsed markdown file.
type Note struct {
	// RelPath is the vault-relative path with forward slashes.
	RelPath string
	// Content is the full original file content.
	Content string
	// Frontmatter is nil when the file has no metadata block.
	Frontmatter *Frontmatter
	// Body is everything after the frontmatter block.
	Body string
}

// ParseNote parses a note file's content.
func ParseNote(relPath, content string) (*Note, error) {
	fm, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}

	_, body, _, _ := Split(content)
	return &Note{
		RelPath:     path.Clean(strings.ReplaceAll(relPath, "\\", "/")),
		Content:     content,
		Frontmatter: fm,
		Body:        body,
	}, nil
}

// Type returns the note's declared type, or "" for untyped notes.
func (n *Note) Type() string {
	if n.Frontmatter == nil {
		return ""
	}
	return n.Frontmatter.Type
}

// BaseName returns the file name without directory or extension.
func (n *Note) BaseName() string {
	base := path.Base(n.RelPath)
	return strings.TrimSuffix(base, ".md")
}

// forceLinkQuoting double-quotes scalar values that carry link syntax, the
// quoting pair the link scanner recognizes. yaml.v3 would otherwise pick
// single quotes for values opening with '['.
func forceLinkQuoting(node *yaml.Node) {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.HasPrefix(node.Value, "[[") || strings.HasPrefix(node.Value, "[") {
			node.Style = yaml.DoubleQuotedStyle
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			forceLinkQuoting(item)
		}
	}
}

// Serialize renders a note file: frontmatter with the type key first and
// remaining fields in the given schema order (unknown fields follow,
// alphabetically), a blank line, then the body.
func Serialize(typeName string, fields map[string]interface{}, order []string, body string) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendPair := func(key string, value interface{}) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(value); err != nil {
			return err
		}
		forceLinkQuoting(valNode)
		root.Content = append(root.Content, keyNode, valNode)
		return nil
	}

	if typeName != "" {
		if err := appendPair("type", typeName); err != nil {
			return "", err
		}
	}

	emitted := make(map[string]bool, len(fields))
	for _, key := range order {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if err := appendPair(key, value); err != nil {
			return "", err
		}
		emitted[key] = true
	}

	var extras []string
	for key := range fields {
		if !emitted[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		if err := appendPair(key, fields[key]); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	sb.WriteString(delimiter + "\n")
	if len(root.Content) > 0 {
		out, err := yaml.Marshal(root)
		if err != nil {
			return "", err
		}
		sb.Write(out)
	}
	sb.WriteString(delimiter + "\n")

	body = strings.TrimLeft(body, "\n")
	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
	}

	return sb.String(), nil
}
