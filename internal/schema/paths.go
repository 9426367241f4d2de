package schema

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// OutputDir computes the canonical pooled storage directory for a type,
// vault-relative with forward slashes.
//
// If the type or any ancestor declares an explicit output_dir, the nearest
// declaration wins. Otherwise the directory is the inheritance chain from the
// outermost non-root ancestor down to the type, each segment pluralized and
// capitalized: root→objective→task yields "Objectives/Tasks".
func (r *Registry) OutputDir(typeName string) (string, error) {
	node, ok := r.types[typeName]
	if !ok {
		return "", fmt.Errorf("unknown type %q", typeName)
	}
	if node.IsRoot() {
		return "", nil
	}

	// Nearest explicit output_dir, self first.
	for n := node; !n.IsRoot(); n = r.types[n.Parent] {
		if n.OutputDir != "" {
			return path.Clean(strings.Trim(n.OutputDir, "/")), nil
		}
	}

	// Chain from outermost non-root ancestor to the type itself.
	chain := []string{node.Name}
	for n := node; ; {
		parent := r.types[n.Parent]
		if parent.IsRoot() {
			break
		}
		chain = append([]string{parent.Name}, chain...)
		n = parent
	}

	segments := make([]string, len(chain))
	for i, name := range chain {
		segments[i] = r.dirSegment(name)
	}
	return path.Join(segments...), nil
}

// OwnedNotePath computes the storage path of a note owned by another note's
// field: the owner's base name becomes a directory, the owning field a
// subdirectory. Owned notes never use the pooled directory, so by-type
// listings over pooled directories structurally exclude them.
func OwnedNotePath(ownerDir, ownerBase, fieldName, childFile string) string {
	return path.Join(ownerDir, ownerBase, fieldName, childFile)
}

func (r *Registry) dirSegment(typeName string) string {
	node := r.types[typeName]
	if node.Plural != "" {
		return node.Plural
	}
	return capitalize(Pluralize(typeName))
}

// Pluralize applies the standard pluralization: trailing consonant+'y'
// becomes "ies", anything else appends "s".
func Pluralize(name string) string {
	if len(name) >= 2 && strings.HasSuffix(name, "y") {
		prev := rune(name[len(name)-2])
		if !isVowel(prev) {
			return name[:len(name)-1] + "ies"
		}
	}
	return name + "s"
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
