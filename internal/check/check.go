// Package check audits a vault against its schema: reference integrity,
// hierarchy cycles, ownership exclusivity, field validity, and note
// placement.
package check

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aidanlsb/magpie/internal/graph"
	"github.com/aidanlsb/magpie/internal/headings"
	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/wikilink"
)

// Level classifies an issue's severity.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Issue is one problem found during an audit.
type Issue struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Path    string `json:"path"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Issue codes.
const (
	CodeUnknownType       = "UNKNOWN_TYPE"
	CodeRefNotFound       = "REF_NOT_FOUND"
	CodeRefAmbiguous      = "REF_AMBIGUOUS"
	CodeHeadingNotFound   = "HEADING_NOT_FOUND"
	CodeCycle             = "CYCLE"
	CodeOwnershipConflict = "OWNERSHIP_CONFLICT"
	CodeRequiredMissing   = "REQUIRED_MISSING"
	CodeInvalidOption     = "INVALID_OPTION"
	CodeMisplaced         = "MISPLACED"
)

// Checker runs every audit over one corpus snapshot.
type Checker struct {
	reg *schema.Registry
	ix  *refindex.Index
}

// New creates a Checker over a loaded registry and index.
func New(reg *schema.Registry, ix *refindex.Index) *Checker {
	return &Checker{reg: reg, ix: ix}
}

// Run executes all audits and returns the issues sorted by path then line.
func (c *Checker) Run() []Issue {
	var issues []Issue
	issues = append(issues, c.checkTypes()...)
	issues = append(issues, c.checkReferences()...)
	issues = append(issues, c.checkCycles()...)
	issues = append(issues, c.checkOwnership()...)
	issues = append(issues, c.checkPlacement()...)

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Line < issues[j].Line
	})
	return issues
}

// checkTypes validates each note's declared type and its field values
// against the resolved field set.
func (c *Checker) checkTypes() []Issue {
	var issues []Issue
	for _, n := range c.ix.Notes() {
		typeName := n.Type()
		if typeName == "" {
			continue
		}
		node, ok := c.reg.Resolve(typeName)
		if !ok {
			issues = append(issues, Issue{
				Level: LevelError, Code: CodeUnknownType, Path: n.RelPath,
				Message: fmt.Sprintf("type '%s' is not in the schema", typeName),
			})
			continue
		}

		for _, fieldName := range node.ResolvedOrder {
			f := node.ResolvedFields[fieldName]
			value, present := n.Frontmatter.Fields[fieldName]

			if f.Required && (!present || value == nil || value == "") {
				issues = append(issues, Issue{
					Level: LevelWarning, Code: CodeRequiredMissing, Path: n.RelPath,
					Message: fmt.Sprintf("required field '%s' is empty", fieldName),
				})
				continue
			}
			if !present || f.Select == nil {
				continue
			}
			if s, ok := value.(string); ok && s != "" && !containsString(f.Select.Options, s) {
				issues = append(issues, Issue{
					Level: LevelWarning, Code: CodeInvalidOption, Path: n.RelPath,
					Message: fmt.Sprintf("field '%s' has value %q, not one of %v", fieldName, s, f.Select.Options),
				})
			}
		}
	}
	return issues
}

// checkReferences reports dangling and ambiguous links, and heading
// fragments that name no heading in the target note.
func (c *Checker) checkReferences() []Issue {
	var issues []Issue
	bodyStarts := make(map[string][]headings.Heading)

	for _, ref := range c.ix.ScanAll() {
		if ref.Err != nil {
			code := CodeRefNotFound
			level := LevelError
			var amb *refindex.AmbiguousReferenceError
			if errors.As(ref.Err, &amb) {
				code = CodeRefAmbiguous
			}
			issues = append(issues, Issue{
				Level: level, Code: code, Path: ref.SourceRel, Line: ref.Line,
				Message: ref.Err.Error(),
			})
			continue
		}

		if ref.Link.Heading == "" {
			continue
		}
		target, ok := c.ix.Note(ref.TargetRel)
		if !ok {
			continue
		}
		hs, cached := bodyStarts[ref.TargetRel]
		if !cached {
			startLine := 1
			if target.Frontmatter != nil {
				startLine = wikilink.LineNumber(target.Content, target.Frontmatter.BodyOffset)
			}
			hs = headings.Extract(target.Body, startLine)
			bodyStarts[ref.TargetRel] = hs
		}
		if !headings.Match(ref.Link.Heading, hs) {
			issues = append(issues, Issue{
				Level: LevelWarning, Code: CodeHeadingNotFound, Path: ref.SourceRel, Line: ref.Line,
				Message: fmt.Sprintf("no heading %q in %s", ref.Link.Heading, ref.TargetRel),
			})
		}
	}
	return issues
}

// checkCycles audits the instance hierarchy of every recursive type.
func (c *Checker) checkCycles() []Issue {
	var issues []Issue

	for _, node := range c.reg.Types() {
		if !node.Recursive {
			continue
		}
		parentField := c.parentFieldFor(node)
		if parentField == "" {
			continue
		}

		// A multi-valued parent field contributes one edge per value; a
		// cycle through any of them is a real cycle.
		parents := make(map[string][]string)
		for _, n := range c.ix.Notes() {
			if n.Type() != node.Name || n.Frontmatter == nil {
				continue
			}
			raw, ok := n.Frontmatter.Fields[parentField]
			if !ok {
				continue
			}
			for _, v := range valueStrings(raw) {
				target := v
				if ref, ok := wikilink.ParseExact(v); ok {
					target = ref.Target
				}
				if rel, err := c.ix.Resolve(target); err == nil {
					parents[n.RelPath] = append(parents[n.RelPath], rel)
				}
			}
		}

		keys := make([]string, 0, len(parents))
		for k := range parents {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		state := make(map[string]int) // 0 unvisited, 1 on stack, 2 done
		var stack []string
		var visit func(string)
		visit = func(rel string) {
			state[rel] = 1
			stack = append(stack, rel)
			for _, p := range parents[rel] {
				switch state[p] {
				case 0:
					visit(p)
				case 1:
					start := 0
					for i, s := range stack {
						if s == p {
							start = i
							break
						}
					}
					cycle := append(append([]string{}, stack[start:]...), p)
					issues = append(issues, Issue{
						Level: LevelError, Code: CodeCycle, Path: p,
						Message: (&graph.CycleError{Path: cycle}).Error(),
					})
				}
			}
			stack = stack[:len(stack)-1]
			state[rel] = 2
		}
		for _, rel := range keys {
			if state[rel] == 0 {
				visit(rel)
			}
		}
	}
	return issues
}

// parentFieldFor finds the field that links an instance to its parent
// instance: the first non-owned relation field whose targets include the
// type itself.
func (c *Checker) parentFieldFor(node *schema.TypeNode) string {
	for _, name := range node.ResolvedOrder {
		f := node.ResolvedFields[name]
		if f.Relation == nil || f.Relation.Owned {
			continue
		}
		if containsString(f.Relation.Targets, node.Name) {
			return name
		}
	}
	return ""
}

// checkOwnership audits instance-level ownership exclusivity.
func (c *Checker) checkOwnership() []Issue {
	var issues []Issue
	for _, conflict := range c.ix.FindInstanceConflicts(c.reg) {
		owners := make([]string, 0, len(conflict.Claims))
		for _, claim := range conflict.Claims {
			owners = append(owners, fmt.Sprintf("%s.%s", claim.OwnerRel, claim.Field))
		}
		sort.Strings(owners)
		issues = append(issues, Issue{
			Level: LevelError, Code: CodeOwnershipConflict, Path: conflict.ChildRel,
			Message: fmt.Sprintf("claimed by more than one owner: %s", strings.Join(owners, ", ")),
		})
	}
	return issues
}

// checkPlacement warns when a non-owned note sits outside its type's
// computed directory.
func (c *Checker) checkPlacement() []Issue {
	var issues []Issue
	owns := c.reg.Ownership()

	for _, n := range c.ix.Notes() {
		typeName := n.Type()
		if typeName == "" {
			continue
		}
		if _, ok := c.reg.Resolve(typeName); !ok {
			continue
		}
		if owns.IsOwned(typeName) {
			continue
		}
		expected, err := c.reg.OutputDir(typeName)
		if err != nil || expected == "" {
			continue
		}
		dir := path.Dir(n.RelPath)
		if dir == "." {
			dir = ""
		}
		if dir != expected && !strings.HasPrefix(dir, expected+"/") {
			issues = append(issues, Issue{
				Level: LevelWarning, Code: CodeMisplaced, Path: n.RelPath,
				Message: fmt.Sprintf("type '%s' notes belong under %s/", typeName, expected),
			})
		}
	}
	return issues
}

// ErrorCount returns how many issues are errors.
func ErrorCount(issues []Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Level == LevelError {
			n++
		}
	}
	return n
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func valueStrings(value interface{}) []string {
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
