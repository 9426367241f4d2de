package schema

import "sort"

// OwnedDecl is one ownership declaration as seen from the owner side.
type OwnedDecl struct {
	Field    string
	Child    string
	Multiple bool
}

// OwnershipMap is the bidirectional view of every ownership declaration in
// the schema. Owned notes live under their owner's directory and are
// reachable only by traversing from the owner; the map answers both
// directions of that traversal.
type OwnershipMap struct {
	// Owns maps an owner type to its ownership declarations.
	Owns map[string][]OwnedDecl
	// OwnedBy maps a child type to the single claim on it. The value is a
	// slice only to report conflicts before validation rejects them.
	OwnedBy map[string][]OwnerClaim
}

// buildOwnershipMap scans every type's own field declarations for ownership
// flags, expanding branch targets to the branch's whole subtree. It fails if
// any child type ends up claimed by more than one (owner, field) pair.
func buildOwnershipMap(r *Registry) (*OwnershipMap, error) {
	m := &OwnershipMap{
		Owns:    make(map[string][]OwnedDecl),
		OwnedBy: make(map[string][]OwnerClaim),
	}

	for _, owner := range r.Types() {
		for _, fieldName := range owner.OwnFields.Order {
			f := owner.OwnFields.Defs[fieldName]
			if !f.IsOwnership() {
				continue
			}
			for _, child := range r.Branch(f.Relation.Source) {
				m.Owns[owner.Name] = append(m.Owns[owner.Name], OwnedDecl{
					Field:    fieldName,
					Child:    child,
					Multiple: f.Relation.Multiple,
				})
				m.OwnedBy[child] = append(m.OwnedBy[child], OwnerClaim{
					Owner:    owner.Name,
					Field:    fieldName,
					Multiple: f.Relation.Multiple,
				})
			}
		}
	}

	// Deterministic conflict reporting regardless of map iteration order.
	var conflicted []string
	for child, claims := range m.OwnedBy {
		if len(claims) > 1 {
			conflicted = append(conflicted, child)
		}
	}
	if len(conflicted) > 0 {
		sort.Strings(conflicted)
		child := conflicted[0]
		claims := m.OwnedBy[child]
		sort.Slice(claims, func(i, j int) bool {
			if claims[i].Owner != claims[j].Owner {
				return claims[i].Owner < claims[j].Owner
			}
			return claims[i].Field < claims[j].Field
		})
		return nil, &OwnershipConflictError{Child: child, Claims: claims}
	}

	return m, nil
}

// Claim returns the single ownership claim on a child type, if any.
func (m *OwnershipMap) Claim(child string) (OwnerClaim, bool) {
	claims := m.OwnedBy[child]
	if len(claims) != 1 {
		return OwnerClaim{}, false
	}
	return claims[0], true
}

// IsOwned reports whether instances of the type live under an owner instead
// of the pooled type directory.
func (m *OwnershipMap) IsOwned(child string) bool {
	_, ok := m.Claim(child)
	return ok
}
