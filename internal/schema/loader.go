package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UnmarshalJSON decodes the schema document, rejecting duplicate type and
// enum names. encoding/json silently keeps the last duplicate key, which
// would hide a real authoring error.
func (d *Document) UnmarshalJSON(data []byte) error {
	d.Types = make(map[string]*TypeDefinition)
	d.Enums = make(map[string][]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch keyTok.(string) {
		case "types":
			if err := decodeTypes(dec, d.Types); err != nil {
				return err
			}
		case "enums":
			if err := decodeEnums(dec, d.Enums); err != nil {
				return err
			}
		default:
			// Skip unknown top-level keys.
			var ignored json.RawMessage
			if err := dec.Decode(&ignored); err != nil {
				return err
			}
		}
	}

	_, err = dec.Token()
	return err
}

func decodeTypes(dec *json.Decoder, types map[string]*TypeDefinition) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("'types' must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		if _, exists := types[name]; exists {
			return &SchemaError{Type: name, Message: "duplicate type name"}
		}

		var td TypeDefinition
		if err := dec.Decode(&td); err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
		types[name] = &td
	}

	_, err = dec.Token()
	return err
}

func decodeEnums(dec *json.Decoder, enums map[string][]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("'enums' must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		if _, exists := enums[name]; exists {
			return &SchemaError{Message: fmt.Sprintf("duplicate enum name %q", name)}
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("enum %q: %w", name, err)
		}
		enums[name] = values
	}

	_, err = dec.Token()
	return err
}

// Load reads and validates the schema from a vault's schema.json, returning
// the fully resolved registry. A missing schema file yields an empty registry
// with just the implicit root type.
func Load(vaultPath string) (*Registry, error) {
	schemaPath := filepath.Join(vaultPath, SchemaFileName)

	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		return NewRegistry(&Document{
			Types: make(map[string]*TypeDefinition),
			Enums: make(map[string][]string),
		})
	}

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema file %s: %w", schemaPath, err)
	}

	return Parse(data)
}

// Parse decodes and validates raw schema JSON.
func Parse(data []byte) (*Registry, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return NewRegistry(&doc)
}

// CreateDefault writes a starter schema.json into the vault.
func CreateDefault(vaultPath string) error {
	schemaPath := filepath.Join(vaultPath, SchemaFileName)

	defaultSchema := `{
  "types": {
    "person": {
      "fields": {
        "email": {"prompt": "text"}
      }
    },
    "objective": {
      "fields": {
        "status": {"prompt": "select", "enum": "status", "default": "active"},
        "owner": {"prompt": "relation", "source": "person", "format": "wikilink"}
      }
    },
    "task": {
      "extends": "objective",
      "recursive": true,
      "fields": {
        "status": {"default": "inbox"},
        "due": {"prompt": "date"}
      }
    }
  },
  "enums": {
    "status": ["inbox", "active", "done"]
  }
}
`

	if err := os.WriteFile(schemaPath, []byte(defaultSchema), 0644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
