// Package schema handles schema loading, type resolution, and validation.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaFileName is the schema file expected at the vault root.
const SchemaFileName = "schema.json"

// RootTypeName is the implicit root of the type tree. Types that declare no
// parent extend it.
const RootTypeName = "note"

// Document is the raw schema file as decoded from schema.json, before any
// inheritance resolution.
type Document struct {
	Types map[string]*TypeDefinition
	Enums map[string][]string
}

// TypeDefinition is one entry in the schema file's types map.
type TypeDefinition struct {
	Extends    string   `json:"extends,omitempty"`
	Recursive  bool     `json:"recursive,omitempty"`
	OutputDir  string   `json:"output_dir,omitempty"`
	Plural     string   `json:"plural,omitempty"`
	FieldOrder []string `json:"field_order,omitempty"`
	Fields     FieldMap `json:"fields,omitempty"`
}

// FieldMap holds a type's own field declarations in declaration order.
// encoding/json's map decoding discards key order, which the field-order
// rules depend on, so this decodes the object token by token.
type FieldMap struct {
	Defs  map[string]*Field
	Order []string
}

// UnmarshalJSON decodes a JSON object preserving key order and rejecting
// duplicate field names.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	m.Defs = make(map[string]*Field)
	m.Order = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		if _, exists := m.Defs[name]; exists {
			return fmt.Errorf("duplicate field %q", name)
		}

		var f Field
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		m.Defs[name] = &f
		m.Order = append(m.Order, name)
	}

	_, err = dec.Token() // closing '}'
	return err
}

// Get returns the declaration for a field name.
func (m *FieldMap) Get(name string) (*Field, bool) {
	f, ok := m.Defs[name]
	return f, ok
}

// Len returns the number of declared fields.
func (m *FieldMap) Len() int { return len(m.Defs) }

// PromptKind discriminates field variants.
type PromptKind string

const (
	PromptStatic   PromptKind = "static"
	PromptSelect   PromptKind = "select"
	PromptRelation PromptKind = "relation"
	PromptText     PromptKind = "text"
	PromptDate     PromptKind = "date"
	PromptList     PromptKind = "list"

	// promptOverride marks a declaration that carries no prompt of its
	// own: a descendant re-declaring an ancestor field's default.
	promptOverride PromptKind = ""
)

// LinkFormat controls how relation values are rendered in frontmatter.
type LinkFormat string

const (
	FormatPlain          LinkFormat = "plain"
	FormatWikilink       LinkFormat = "wikilink"
	FormatQuotedWikilink LinkFormat = "quoted-wikilink"
	FormatMarkdownLink   LinkFormat = "markdown-link"
)

// Field is a tagged variant over prompt kinds. Exactly one payload is
// meaningful per kind; the JSON decoder rejects attributes that don't belong
// to the declared kind, so invalid combinations cannot be constructed from a
// schema file.
type Field struct {
	Kind     PromptKind
	Required bool
	Default  interface{}

	// Static carries the fixed value for PromptStatic.
	Static *StaticSpec
	// Select carries the enum reference for PromptSelect.
	Select *SelectSpec
	// Relation carries the target/link attributes for PromptRelation.
	Relation *RelationSpec
	// List carries item rendering for PromptList.
	List *ListSpec
}

// StaticSpec is the payload of a static-value field.
type StaticSpec struct {
	Value interface{}
}

// SelectSpec is the payload of a single-select field. Exactly one of Enum
// (named enum in the schema's enums map) or Options (inline literals) is set
// in the source document; after resolution, Options always holds the
// expanded literal list.
type SelectSpec struct {
	Enum    string
	Options []string
}

// RelationSpec is the payload of a relation field.
type RelationSpec struct {
	// Source is the declared target type (possibly a branch type).
	Source string
	// Targets is Source expanded to itself plus all its descendants.
	// Populated during resolution; empty in a freshly decoded document.
	Targets []string
	Format  LinkFormat
	Owned   bool
	// Multiple allows more than one linked note.
	Multiple bool
}

// ListSpec is the payload of a multi-value list field.
type ListSpec struct {
	// Format applies when list items are links.
	Format LinkFormat
}

// rawField mirrors the schema file's flat field encoding.
type rawField struct {
	Prompt   string      `json:"prompt"`
	Value    interface{} `json:"value,omitempty"`
	Enum     string      `json:"enum,omitempty"`
	Options  []string    `json:"options,omitempty"`
	Source   string      `json:"source,omitempty"`
	Required bool        `json:"required,omitempty"`
	Default  interface{} `json:"default,omitempty"`
	Format   string      `json:"format,omitempty"`
	Multiple bool        `json:"multiple,omitempty"`
	Owned    bool        `json:"owned,omitempty"`
}

// UnmarshalJSON decodes the flat schema-file encoding into the tagged
// variant.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw rawField
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	format, err := parseLinkFormat(raw.Format)
	if err != nil {
		return err
	}

	f.Required = raw.Required
	f.Default = raw.Default

	switch PromptKind(raw.Prompt) {
	case PromptStatic:
		if raw.Enum != "" || len(raw.Options) > 0 || raw.Source != "" || raw.Multiple || raw.Owned {
			return fmt.Errorf("static field accepts only 'value', 'required', 'default'")
		}
		f.Kind = PromptStatic
		f.Static = &StaticSpec{Value: raw.Value}

	case PromptSelect:
		if raw.Source != "" || raw.Value != nil || raw.Owned {
			return fmt.Errorf("select field accepts only 'enum' or 'options'")
		}
		if raw.Enum == "" && len(raw.Options) == 0 {
			return fmt.Errorf("select field requires 'enum' or 'options'")
		}
		if raw.Enum != "" && len(raw.Options) > 0 {
			return fmt.Errorf("select field cannot set both 'enum' and 'options'")
		}
		f.Kind = PromptSelect
		f.Select = &SelectSpec{Enum: raw.Enum, Options: raw.Options}

	case PromptRelation:
		if raw.Enum != "" || len(raw.Options) > 0 || raw.Value != nil {
			return fmt.Errorf("relation field accepts only 'source', 'format', 'multiple', 'owned'")
		}
		if raw.Source == "" {
			return fmt.Errorf("relation field requires 'source'")
		}
		f.Kind = PromptRelation
		f.Relation = &RelationSpec{
			Source:   raw.Source,
			Format:   format,
			Owned:    raw.Owned,
			Multiple: raw.Multiple,
		}

	case PromptText, PromptDate:
		if raw.Enum != "" || len(raw.Options) > 0 || raw.Source != "" || raw.Value != nil || raw.Owned {
			return fmt.Errorf("%s field accepts only 'required' and 'default'", raw.Prompt)
		}
		f.Kind = PromptKind(raw.Prompt)

	case PromptList:
		if raw.Enum != "" || len(raw.Options) > 0 || raw.Source != "" || raw.Value != nil || raw.Owned {
			return fmt.Errorf("list field accepts only 'format', 'required', 'default'")
		}
		f.Kind = PromptList
		f.List = &ListSpec{Format: format}

	case promptOverride:
		// No prompt: a default override of an inherited field. Any
		// structural attribute here would be a disguised redefinition.
		if raw.Enum != "" || len(raw.Options) > 0 || raw.Source != "" ||
			raw.Value != nil || raw.Format != "" || raw.Multiple || raw.Owned || raw.Required {
			return fmt.Errorf("field without 'prompt' may only set 'default'")
		}
		f.Kind = promptOverride

	default:
		return fmt.Errorf("unknown prompt kind %q", raw.Prompt)
	}

	return nil
}

func parseLinkFormat(s string) (LinkFormat, error) {
	switch LinkFormat(s) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatWikilink, FormatQuotedWikilink, FormatMarkdownLink:
		return LinkFormat(s), nil
	default:
		return "", fmt.Errorf("unknown link format %q", s)
	}
}

// IsOverride reports whether this declaration only overrides an inherited
// field's default.
func (f *Field) IsOverride() bool {
	return f.Kind == promptOverride
}

// WithDefault returns a copy of f with Default replaced. This is the only
// attribute a descendant type may change; all structural attributes persist
// from the defining ancestor's declaration.
func (f *Field) WithDefault(def interface{}) *Field {
	copied := *f
	copied.Default = def
	return &copied
}

// IsOwnership reports whether this field declares exclusive containment of
// its relation target.
func (f *Field) IsOwnership() bool {
	return f.Kind == PromptRelation && f.Relation != nil && f.Relation.Owned
}

// StructurallyEqual reports whether two fields agree on every attribute
// except Default. Used to enforce the default-only override rule.
func (f *Field) StructurallyEqual(other *Field) bool {
	if f.Kind != other.Kind || f.Required != other.Required {
		return false
	}
	switch f.Kind {
	case PromptStatic:
		return fmt.Sprint(f.Static.Value) == fmt.Sprint(other.Static.Value)
	case PromptSelect:
		if f.Select.Enum != other.Select.Enum || len(f.Select.Options) != len(other.Select.Options) {
			return false
		}
		for i := range f.Select.Options {
			if f.Select.Options[i] != other.Select.Options[i] {
				return false
			}
		}
		return true
	case PromptRelation:
		return f.Relation.Source == other.Relation.Source &&
			f.Relation.Format == other.Relation.Format &&
			f.Relation.Owned == other.Relation.Owned &&
			f.Relation.Multiple == other.Relation.Multiple
	case PromptList:
		return f.List.Format == other.List.Format
	default:
		return true
	}
}
