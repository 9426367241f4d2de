package schema

import "fmt"

// resolveAllFields merges fields root-to-leaf for every type.
//
// Folding rule: a field name already visible from an ancestor may only have
// its default changed by a descendant. A descendant declaration either omits
// the prompt entirely (a pure default override) or restates the ancestor's
// structure verbatim; any structural divergence is rejected at load time
// rather than silently ignored.
func (r *Registry) resolveAllFields() error {
	resolved := make(map[string]bool, len(r.types))

	var resolve func(node *TypeNode) error
	resolve = func(node *TypeNode) error {
		if resolved[node.Name] {
			return nil
		}

		if node.IsRoot() {
			node.ResolvedFields = make(map[string]*Field)
			node.ResolvedOrder = nil
		} else {
			parent := r.types[node.Parent]
			if err := resolve(parent); err != nil {
				return err
			}

			fields := make(map[string]*Field, len(parent.ResolvedFields)+node.OwnFields.Len())
			order := make([]string, len(parent.ResolvedOrder))
			for name, f := range parent.ResolvedFields {
				fields[name] = f
			}
			copy(order, parent.ResolvedOrder)

			for _, name := range node.OwnFields.Order {
				decl := node.OwnFields.Defs[name]
				inherited, exists := fields[name]

				switch {
				case decl.IsOverride():
					if !exists {
						return &SchemaError{Type: node.Name, Field: name,
							Message: "overrides a field no ancestor declares"}
					}
					fields[name] = inherited.WithDefault(decl.Default)

				case exists:
					if !decl.StructurallyEqual(inherited) {
						return &SchemaError{Type: node.Name, Field: name,
							Message: "only 'default' may differ from the ancestor declaration"}
					}
					fields[name] = inherited.WithDefault(decl.Default)

				default:
					fields[name] = decl
					order = append(order, name)
				}
			}

			node.ResolvedFields = fields
			node.ResolvedOrder = order
		}

		if err := r.applyExplicitOrder(node); err != nil {
			return err
		}
		if err := r.expandFields(node); err != nil {
			return err
		}

		resolved[node.Name] = true
		return nil
	}

	for _, node := range r.types {
		if err := resolve(node); err != nil {
			return err
		}
	}
	return nil
}

// applyExplicitOrder replaces the merged order with the type's declared
// field_order, appending any resolved fields the list omits.
func (r *Registry) applyExplicitOrder(node *TypeNode) error {
	if len(node.FieldOrder) == 0 {
		return nil
	}

	listed := make(map[string]bool, len(node.FieldOrder))
	order := make([]string, 0, len(node.ResolvedOrder))
	for _, name := range node.FieldOrder {
		if _, ok := node.ResolvedFields[name]; !ok {
			return &SchemaError{Type: node.Name,
				Message: fmt.Sprintf("field_order names unknown field %q", name)}
		}
		if listed[name] {
			return &SchemaError{Type: node.Name,
				Message: fmt.Sprintf("field_order repeats %q", name)}
		}
		listed[name] = true
		order = append(order, name)
	}
	for _, name := range node.ResolvedOrder {
		if !listed[name] {
			order = append(order, name)
		}
	}
	node.ResolvedOrder = order
	return nil
}

// expandFields rewrites select fields to carry their literal value list and
// relation fields to carry the flattened target-type list, so downstream
// consumers never chase enum names or branch types themselves.
func (r *Registry) expandFields(node *TypeNode) error {
	for name, f := range node.ResolvedFields {
		switch f.Kind {
		case PromptSelect:
			if f.Select.Enum == "" {
				continue
			}
			values, ok := r.enums[f.Select.Enum]
			if !ok {
				return &SchemaError{Type: node.Name, Field: name,
					Message: fmt.Sprintf("references unknown enum %q", f.Select.Enum)}
			}
			expanded := *f
			expanded.Select = &SelectSpec{Enum: f.Select.Enum, Options: values}
			if expanded.Default != nil {
				if s, ok := expanded.Default.(string); ok && !contains(values, s) {
					return &SchemaError{Type: node.Name, Field: name,
						Message: fmt.Sprintf("default %q is not a value of enum %q", s, f.Select.Enum)}
				}
			}
			node.ResolvedFields[name] = &expanded

		case PromptRelation:
			if _, ok := r.types[f.Relation.Source]; !ok {
				return &SchemaError{Type: node.Name, Field: name,
					Message: fmt.Sprintf("relation source %q is not a known type", f.Relation.Source)}
			}
			expanded := *f
			rel := *f.Relation
			rel.Targets = r.Branch(f.Relation.Source)
			expanded.Relation = &rel
			node.ResolvedFields[name] = &expanded
		}
	}
	return nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
