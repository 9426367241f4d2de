package schema

import (
	"fmt"
	"strings"
)

// SchemaError is a fatal schema-load error: duplicate type names, cyclic
// inheritance, dangling parent/source/enum references, or an illegal field
// override. No command that depends on the schema runs after one of these.
type SchemaError struct {
	Type    string // offending type, if known
	Field   string // offending field, if known
	Message string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("schema: type %q, field %q: %s", e.Type, e.Field, e.Message)
	case e.Type != "":
		return fmt.Sprintf("schema: type %q: %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("schema: %s", e.Message)
	}
}

// OwnerClaim identifies one (owner type, field) pair claiming a child type.
type OwnerClaim struct {
	Owner    string
	Field    string
	Multiple bool
}

// OwnershipConflictError reports a child type claimed as owned by more than
// one (owner, field) pair. Fatal at schema validation: ownership must be
// unambiguous at the type level.
type OwnershipConflictError struct {
	Child  string
	Claims []OwnerClaim
}

func (e *OwnershipConflictError) Error() string {
	claims := make([]string, len(e.Claims))
	for i, c := range e.Claims {
		claims[i] = fmt.Sprintf("%s.%s", c.Owner, c.Field)
	}
	return fmt.Sprintf("ownership conflict: type %q claimed by %s",
		e.Child, strings.Join(claims, " and "))
}
