// Package refindex indexes inter-note references across the live corpus.
//
// There is no persistent index: callers build an Index from a fresh corpus
// walk per invocation and discard it after use, trading scan latency for
// never-stale results.
package refindex

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/magpie/internal/parser"
	"github.com/aidanlsb/magpie/internal/wikilink"
)

// Reference is one link occurrence found in a source note, with its
// resolution against the corpus.
type Reference struct {
	// SourceRel is the vault-relative path of the file containing the link.
	SourceRel string
	// Link is the raw match, with offset into the source file's content.
	Link wikilink.Reference
	// Line is the 1-based line number of the match.
	Line int
	// InFrontmatter is true when the match falls inside the metadata block.
	InFrontmatter bool

	// TargetRel is the resolved vault-relative path, empty if unresolved.
	TargetRel string
	// Err carries the resolution failure (ambiguous or not found), if any.
	Err error
}

// AmbiguousReferenceError reports a link whose base name matches more than
// one file. Reported per reference; the surrounding scan continues.
type AmbiguousReferenceError struct {
	Target     string
	Candidates []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("ambiguous reference %q: matches %s",
		e.Target, strings.Join(e.Candidates, ", "))
}

// NotFoundError reports a link that resolves to no file.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference %q not found", e.Target)
}

// Index is a request-scoped view of the corpus for reference resolution.
type Index struct {
	notes  []*parser.Note
	byPath map[string]*parser.Note
	byBase map[string][]string
}

// New builds an index over a freshly collected corpus.
func New(notes []*parser.Note) *Index {
	ix := &Index{
		notes:  notes,
		byPath: make(map[string]*parser.Note, len(notes)),
		byBase: make(map[string][]string),
	}
	for _, n := range notes {
		ix.byPath[n.RelPath] = n
		base := n.BaseName()
		ix.byBase[base] = append(ix.byBase[base], n.RelPath)
	}
	for base := range ix.byBase {
		sort.Strings(ix.byBase[base])
	}
	return ix
}

// Notes returns the indexed corpus.
func (ix *Index) Notes() []*parser.Note { return ix.notes }

// Note returns the note at a vault-relative path.
func (ix *Index) Note(rel string) (*parser.Note, bool) {
	n, ok := ix.byPath[normalizeRel(rel)]
	return n, ok
}

// BaseNameCount returns how many files share a base name.
func (ix *Index) BaseNameCount(base string) int {
	return len(ix.byBase[base])
}

// Resolve maps a link target to a vault-relative file path.
//
// An exact vault-relative path match (extension-normalized) takes
// precedence. A slash-free target otherwise matches by base name, provided
// the base name is unique across the vault; a non-unique base name is
// ambiguous and reported, never guessed.
func (ix *Index) Resolve(target string) (string, error) {
	target = wikilink.CleanTarget(target)
	if target == "" {
		return "", &NotFoundError{Target: target}
	}

	rel := normalizeRel(target)
	if _, ok := ix.byPath[rel]; ok {
		return rel, nil
	}

	if strings.Contains(target, "/") {
		return "", &NotFoundError{Target: target}
	}

	matches := ix.byBase[target]
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Target: target}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousReferenceError{Target: target, Candidates: matches}
	}
}

// ResolveArg resolves a user-typed note argument: like Resolve, but with a
// slugged fallback so "freya" finds "People/Freya.md". Link targets inside
// files never use the fallback.
func (ix *Index) ResolveArg(arg string) (string, error) {
	rel, err := ix.Resolve(arg)
	if err == nil {
		return rel, nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return "", err
	}

	want := slug.Make(strings.TrimSuffix(path.Base(arg), ".md"))
	var matches []string
	for base, rels := range ix.byBase {
		if slug.Make(base) == want {
			matches = append(matches, rels...)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Target: arg}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousReferenceError{Target: arg, Candidates: matches}
	}
}

// ScanNote finds and resolves every link in one note.
func (ix *Index) ScanNote(n *parser.Note) []Reference {
	bodyOffset := 0
	if n.Frontmatter != nil {
		bodyOffset = n.Frontmatter.BodyOffset
	}

	links := wikilink.Scan(n.Content)
	out := make([]Reference, 0, len(links))
	for _, link := range links {
		ref := Reference{
			SourceRel:     n.RelPath,
			Link:          link,
			Line:          wikilink.LineNumber(n.Content, link.Offset),
			InFrontmatter: bodyOffset > 0 && link.Offset < bodyOffset,
		}
		ref.TargetRel, ref.Err = ix.Resolve(link.Target)
		out = append(out, ref)
	}
	return out
}

// ScanAll scans the whole corpus once, in deterministic path order.
func (ix *Index) ScanAll() []Reference {
	sorted := make([]*parser.Note, len(ix.notes))
	copy(sorted, ix.notes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	var out []Reference
	for _, n := range sorted {
		out = append(out, ix.ScanNote(n)...)
	}
	return out
}

// ReferencesTo returns every reference in the corpus resolving to the given
// file.
func (ix *Index) ReferencesTo(rel string) []Reference {
	rel = normalizeRel(rel)
	var out []Reference
	for _, ref := range ix.ScanAll() {
		if ref.Err == nil && ref.TargetRel == rel {
			out = append(out, ref)
		}
	}
	return out
}

func normalizeRel(rel string) string {
	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	if !strings.HasSuffix(rel, ".md") {
		rel += ".md"
	}
	return rel
}
