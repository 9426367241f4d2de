package refindex

import (
	"sort"

	"github.com/aidanlsb/magpie/internal/parser"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/wikilink"
)

// BuildCorpus summarizes the indexed corpus for the registry's
// concrete/abstract classification: direct instance counts per declared
// type, plus owned-instance counts credited to the owned note's own type.
func BuildCorpus(reg *schema.Registry, ix *Index) schema.Corpus {
	c := schema.Corpus{
		TypeCounts:  make(map[string]int),
		OwnedCounts: make(map[string]int),
	}

	for _, n := range ix.notes {
		if t := n.Type(); t != "" {
			c.TypeCounts[t]++
		}
	}

	for _, a := range ix.OwnedAssignments(reg) {
		if a.Err != nil {
			continue
		}
		if child, ok := ix.Note(a.ChildRel); ok {
			if t := child.Type(); t != "" {
				c.OwnedCounts[t]++
			}
		}
	}

	return c
}

// OwnedAssignment is one value of an ownership field: an owner note claiming
// a child note.
type OwnedAssignment struct {
	OwnerRel string
	Field    string
	// ChildRel is the resolved child path, empty if resolution failed.
	ChildRel string
	// RawTarget is the link target as written.
	RawTarget string
	Err       error
}

// OwnedAssignments extracts every ownership-field value in the corpus.
func (ix *Index) OwnedAssignments(reg *schema.Registry) []OwnedAssignment {
	var out []OwnedAssignment

	sorted := make([]*parser.Note, len(ix.notes))
	copy(sorted, ix.notes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	for _, n := range sorted {
		typeName := n.Type()
		if typeName == "" || n.Frontmatter == nil {
			continue
		}
		node, ok := reg.Resolve(typeName)
		if !ok {
			continue
		}

		for _, fieldName := range node.ResolvedOrder {
			f := node.ResolvedFields[fieldName]
			if !f.IsOwnership() {
				continue
			}
			value, ok := n.Frontmatter.Fields[fieldName]
			if !ok {
				continue
			}
			for _, raw := range fieldValueStrings(value) {
				target := raw
				if ref, ok := wikilink.ParseExact(raw); ok {
					target = ref.Target
				}
				a := OwnedAssignment{
					OwnerRel:  n.RelPath,
					Field:     fieldName,
					RawTarget: raw,
				}
				a.ChildRel, a.Err = ix.Resolve(target)
				out = append(out, a)
			}
		}
	}

	return out
}

// InstanceConflict reports one note claimed by more than one owner
// instance's owned field. The schema-level exclusivity check cannot catch
// this: both claims may come through the same (owner type, field) pair.
type InstanceConflict struct {
	ChildRel string
	Claims   []OwnedAssignment
}

// FindInstanceConflicts audits instance-level ownership exclusivity across
// the corpus.
func (ix *Index) FindInstanceConflicts(reg *schema.Registry) []InstanceConflict {
	byChild := make(map[string][]OwnedAssignment)
	for _, a := range ix.OwnedAssignments(reg) {
		if a.Err != nil || a.ChildRel == "" {
			continue
		}
		byChild[a.ChildRel] = append(byChild[a.ChildRel], a)
	}

	var conflicts []InstanceConflict
	for child, claims := range byChild {
		if len(claims) > 1 {
			conflicts = append(conflicts, InstanceConflict{ChildRel: child, Claims: claims})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].ChildRel < conflicts[j].ChildRel })
	return conflicts
}

func fieldValueStrings(value interface{}) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
