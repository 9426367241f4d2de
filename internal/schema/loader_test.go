package schema

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Registry {
	t.Helper()
	reg, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return reg
}

func TestParseMinimalSchema(t *testing.T) {
	reg := mustParse(t, `{
		"types": {
			"person": {"fields": {"email": {"prompt": "text"}}}
		}
	}`)

	node, ok := reg.Resolve("person")
	if !ok {
		t.Fatal("person not found")
	}
	if node.Parent != RootTypeName {
		t.Errorf("implicit parent = %q, want %q", node.Parent, RootTypeName)
	}
	if node.ResolvedFields["email"].Kind != PromptText {
		t.Errorf("email kind = %q, want text", node.ResolvedFields["email"].Kind)
	}
}

func TestParseRejectsDuplicateTypeName(t *testing.T) {
	_, err := Parse([]byte(`{
		"types": {
			"person": {},
			"person": {}
		}
	}`))
	if err == nil {
		t.Fatal("expected duplicate type error")
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if se.Type != "person" {
		t.Errorf("error type = %q, want person", se.Type)
	}
}

func TestParseRejectsReservedRootName(t *testing.T) {
	_, err := Parse([]byte(`{"types": {"note": {}}}`))
	if err == nil {
		t.Fatal("expected reserved name error")
	}
}

func TestParseRejectsDanglingParent(t *testing.T) {
	_, err := Parse([]byte(`{"types": {"task": {"extends": "missing"}}}`))
	if err == nil {
		t.Fatal("expected dangling parent error")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name the missing parent: %v", err)
	}
}

func TestParseRejectsInheritanceCycle(t *testing.T) {
	_, err := Parse([]byte(`{
		"types": {
			"a": {"extends": "b"},
			"b": {"extends": "a"}
		}
	}`))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	// The reported cycle path must contain both participants.
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") {
		t.Errorf("cycle error should name both types: %v", err)
	}
}

func TestFieldVariantDecoding(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"static with enum", `{"types":{"t":{"fields":{"f":{"prompt":"static","value":1,"enum":"x"}}}}}`, "static field"},
		{"select without values", `{"types":{"t":{"fields":{"f":{"prompt":"select"}}}}}`, "requires 'enum' or 'options'"},
		{"select with both", `{"types":{"t":{"fields":{"f":{"prompt":"select","enum":"a","options":["x"]}}}}}`, "cannot set both"},
		{"relation without source", `{"types":{"t":{"fields":{"f":{"prompt":"relation"}}}}}`, "requires 'source'"},
		{"date with options", `{"types":{"t":{"fields":{"f":{"prompt":"date","options":["x"]}}}}}`, "date field"},
		{"unknown prompt", `{"types":{"t":{"fields":{"f":{"prompt":"wizard"}}}}}`, "unknown prompt kind"},
		{"unknown format", `{"types":{"t":{"fields":{"f":{"prompt":"relation","source":"t","format":"fancy"}}}}}`, "unknown link format"},
		{"override with structure", `{"types":{"t":{"fields":{"f":{"default":"x","required":true}}}}}`, "may only set 'default'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFieldMapPreservesDeclarationOrder(t *testing.T) {
	reg := mustParse(t, `{
		"types": {
			"t": {"fields": {
				"zeta": {"prompt": "text"},
				"alpha": {"prompt": "text"},
				"mid": {"prompt": "text"}
			}}
		}
	}`)

	node, _ := reg.Resolve("t")
	want := []string{"zeta", "alpha", "mid"}
	if len(node.ResolvedOrder) != len(want) {
		t.Fatalf("order = %v, want %v", node.ResolvedOrder, want)
	}
	for i, name := range want {
		if node.ResolvedOrder[i] != name {
			t.Errorf("order[%d] = %q, want %q", i, node.ResolvedOrder[i], name)
		}
	}
}
