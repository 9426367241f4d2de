package schema

import (
	"sort"

	"github.com/aidanlsb/magpie/internal/graph"
)

// TypeNode is one resolved node of the type tree.
type TypeNode struct {
	Name      string
	Parent    string // "" only for the implicit root
	Children  []string
	Recursive bool

	// OutputDir is the explicit output directory, if declared.
	OutputDir string
	// Plural overrides the standard pluralization of Name.
	Plural string

	// Own declarations, before inheritance.
	OwnFields  FieldMap
	FieldOrder []string

	// ResolvedFields is the merged field set (ancestors folded in).
	ResolvedFields map[string]*Field
	// ResolvedOrder is the merged field order.
	ResolvedOrder []string
}

// IsRoot reports whether this is the implicit root type.
func (n *TypeNode) IsRoot() bool { return n.Name == RootTypeName }

// Registry is the validated, fully resolved type tree for one invocation.
// It is immutable after construction and carries no corpus state; the
// concrete/abstract classification is computed per request from a Corpus.
type Registry struct {
	types map[string]*TypeNode
	enums map[string][]string
	owns  *OwnershipMap
}

// NewRegistry builds and validates the type tree from a decoded document.
//
// Validation order: reserved/duplicate names, dangling parents, inheritance
// cycles, field merge (default-only overrides), enum and relation expansion,
// ownership exclusivity. The first fatal error aborts the load.
func NewRegistry(doc *Document) (*Registry, error) {
	r := &Registry{
		types: make(map[string]*TypeNode, len(doc.Types)+1),
		enums: doc.Enums,
	}
	if r.enums == nil {
		r.enums = make(map[string][]string)
	}

	r.types[RootTypeName] = &TypeNode{Name: RootTypeName}

	// Duplicate keys inside the file are caught by the decoder; here the
	// remaining name collision is shadowing the implicit root.
	for name := range doc.Types {
		if name == RootTypeName {
			return nil, &SchemaError{Type: name, Message: "reserved type name"}
		}
	}

	for name, td := range doc.Types {
		parent := td.Extends
		if parent == "" {
			parent = RootTypeName
		}
		r.types[name] = &TypeNode{
			Name:       name,
			Parent:     parent,
			Recursive:  td.Recursive,
			OutputDir:  td.OutputDir,
			Plural:     td.Plural,
			OwnFields:  td.Fields,
			FieldOrder: td.FieldOrder,
		}
	}

	// Dangling parents.
	for _, node := range r.types {
		if node.IsRoot() {
			continue
		}
		if _, ok := r.types[node.Parent]; !ok {
			return nil, &SchemaError{Type: node.Name,
				Message: "extends unknown type \"" + node.Parent + "\""}
		}
	}

	// Inheritance cycles, via the shared parent-graph walk.
	parents := r.ParentGraph()
	for name := range r.types {
		if path := graph.CheckExistingCycle(name, parents); path != nil {
			return nil, &SchemaError{Type: name,
				Message: (&graph.CycleError{Path: path}).Error()}
		}
	}

	// Children lists, sorted for deterministic traversal.
	for _, node := range r.types {
		if node.IsRoot() {
			continue
		}
		p := r.types[node.Parent]
		p.Children = append(p.Children, node.Name)
	}
	for _, node := range r.types {
		sort.Strings(node.Children)
	}

	if err := r.resolveAllFields(); err != nil {
		return nil, err
	}

	owns, err := buildOwnershipMap(r)
	if err != nil {
		return nil, err
	}
	r.owns = owns

	return r, nil
}

// Resolve returns the node for a type name.
func (r *Registry) Resolve(name string) (*TypeNode, bool) {
	node, ok := r.types[name]
	return node, ok
}

// Root returns the implicit root node.
func (r *Registry) Root() *TypeNode { return r.types[RootTypeName] }

// Types returns all nodes (including the root) sorted by name.
func (r *Registry) Types() []*TypeNode {
	out := make([]*TypeNode, 0, len(r.types))
	for _, node := range r.types {
		out = append(out, node)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enum returns the literal values of a named enum.
func (r *Registry) Enum(name string) ([]string, bool) {
	values, ok := r.enums[name]
	return values, ok
}

// Ownership returns the resolved ownership map.
func (r *Registry) Ownership() *OwnershipMap { return r.owns }

// ParentGraph returns the inheritance graph as a generic node→parent map,
// suitable for graph.DetectCycle.
func (r *Registry) ParentGraph() graph.ParentGraph {
	parents := make(graph.ParentGraph, len(r.types))
	for name, node := range r.types {
		if !node.IsRoot() {
			parents[name] = node.Parent
		}
	}
	return parents
}

// Ancestors returns the ancestor chain of a type, nearest first, root last.
// The type itself is not included.
func (r *Registry) Ancestors(name string) []string {
	var out []string
	node, ok := r.types[name]
	if !ok {
		return nil
	}
	for !node.IsRoot() {
		node = r.types[node.Parent]
		out = append(out, node.Name)
	}
	return out
}

// Descendants returns every type strictly below the given type, sorted.
func (r *Registry) Descendants(name string) []string {
	node, ok := r.types[name]
	if !ok {
		return nil
	}
	var out []string
	var walk func(n *TypeNode)
	walk = func(n *TypeNode) {
		for _, child := range n.Children {
			out = append(out, child)
			walk(r.types[child])
		}
	}
	walk(node)
	sort.Strings(out)
	return out
}

// Branch returns a type plus all its descendants, sorted. Relation sources
// and ownership targets naming a branch type expand through this.
func (r *Registry) Branch(name string) []string {
	if _, ok := r.types[name]; !ok {
		return nil
	}
	out := append([]string{name}, r.Descendants(name)...)
	sort.Strings(out)
	return out
}

// Corpus summarizes the live file listing for concrete/abstract
// classification. It is request-scoped and never cached: external edits must
// be reflected on the next invocation.
type Corpus struct {
	// TypeCounts counts notes whose frontmatter declares exactly that type.
	TypeCounts map[string]int
	// OwnedCounts counts owned instances per child type.
	OwnedCounts map[string]int
}

// IsConcrete reports whether the corpus currently contains at least one note
// of exactly this type, or at least one owned instance of it. Abstract types
// exist only as branch points; "list by type" queries recurse through their
// descendants instead of matching exactly.
func (r *Registry) IsConcrete(name string, c Corpus) bool {
	if c.TypeCounts[name] > 0 {
		return true
	}
	return c.OwnedCounts[name] > 0
}
