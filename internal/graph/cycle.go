// Package graph provides cycle detection over node→parent maps.
//
// The same walk is used for two different graphs: the type-inheritance tree
// (nodes are type names) and per-type note hierarchies (nodes are note names,
// for recursive types with a parent field). Callers supply the map; this
// package knows nothing about schemas or files.
package graph

import (
	"fmt"
	"strings"
)

// ParentGraph maps a node identifier to its declared parent identifier.
// Nodes without a parent are simply absent.
type ParentGraph map[string]string

// CycleError reports a cycle found in a parent graph.
type CycleError struct {
	// Path is the cycle, starting and ending at the same node,
	// e.g. [A B C A].
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " → "))
}

// DetectCycle checks whether assigning proposedParent as node's parent would
// create a cycle, without modifying the graph. The self-reference case
// (proposedParent == node) is a cycle of length one.
//
// It returns the cycle path [node, proposedParent, ..., node] if a cycle
// would form, or nil if the assignment is safe.
func DetectCycle(node, proposedParent string, parents ParentGraph) []string {
	path := []string{node}
	current := proposedParent
	seen := make(map[string]bool, len(parents))

	for current != "" {
		path = append(path, current)
		if current == node {
			return path
		}
		// A pre-existing cycle that doesn't involve node: stop rather
		// than loop forever. CheckExistingCycle reports those.
		if seen[current] {
			return nil
		}
		seen[current] = true
		current = parents[current]
	}

	return nil
}

// CheckExistingCycle checks whether node's currently recorded parent chain
// already contains a cycle through node. It is the audit counterpart of
// DetectCycle: DetectCycle(n, p, g) finds a cycle exactly when
// CheckExistingCycle(n, g∪{n→p}) does.
func CheckExistingCycle(node string, parents ParentGraph) []string {
	parent, ok := parents[node]
	if !ok {
		return nil
	}
	return DetectCycle(node, parent, parents)
}

// ValidateParentAssignment returns a *CycleError if assigning proposedParent
// to node would create a cycle, and nil otherwise.
func ValidateParentAssignment(node, proposedParent string, parents ParentGraph) error {
	if path := DetectCycle(node, proposedParent, parents); path != nil {
		return &CycleError{Path: path}
	}
	return nil
}
