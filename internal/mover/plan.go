// Package mover plans and executes note relocations, rewriting every inbound
// link to match the new locations.
//
// Planning is strictly separated from mutation: a Plan captures all file
// moves and all link edits before a single byte changes on disk, and dry runs
// stop there.
package mover

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/wikilink"
)

// Move relocates one note.
type Move struct {
	FromRel string `json:"from"`
	ToRel   string `json:"to"`
}

// Edit is one link replacement within a source file.
type Edit struct {
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	OldText string `json:"old"`
	NewText string `json:"new"`
}

// FileRewrite collects every edit touching one source file. Edits are
// ordered by descending offset so applying them sequentially never shifts a
// pending edit's position.
type FileRewrite struct {
	// SourceRel is the file's path before any move.
	SourceRel string `json:"source"`
	// FinalRel is where the file lives when edits are applied. Differs
	// from SourceRel when the source itself is being moved.
	FinalRel string `json:"final"`
	Edits    []Edit `json:"edits"`
}

// Plan is a fully computed batch relocation.
type Plan struct {
	Moves    []Move        `json:"moves"`
	Rewrites []FileRewrite `json:"rewrites,omitempty"`
	// Skipped lists references to moved files that could not be rewritten,
	// with the resolution failure.
	Skipped []refindex.Reference `json:"-"`
}

// EditCount totals the link edits across all files.
func (p *Plan) EditCount() int {
	n := 0
	for _, rw := range p.Rewrites {
		n += len(rw.Edits)
	}
	return n
}

// BatchConflictError aborts an entire batch before any write.
type BatchConflictError struct {
	Conflicts []string
}

func (e *BatchConflictError) Error() string {
	return fmt.Sprintf("batch aborted: %s", strings.Join(e.Conflicts, "; "))
}

// Compute builds the relocation plan for a set of moves against the current
// corpus. Any destination collision fails the whole batch up front.
func Compute(ix *refindex.Index, moves []Move) (*Plan, error) {
	if len(moves) == 0 {
		return &Plan{}, nil
	}

	normalized := make([]Move, len(moves))
	for i, m := range moves {
		normalized[i] = Move{
			FromRel: normalizeRel(m.FromRel),
			ToRel:   normalizeRel(m.ToRel),
		}
	}

	moved := make(map[string]string, len(normalized)) // fromRel -> toRel
	var conflicts []string
	destSeen := make(map[string]string)

	for _, m := range normalized {
		if _, ok := ix.Note(m.FromRel); !ok {
			conflicts = append(conflicts, fmt.Sprintf("source %q not found", m.FromRel))
			continue
		}
		if _, dup := moved[m.FromRel]; dup {
			conflicts = append(conflicts, fmt.Sprintf("source %q moved twice", m.FromRel))
			continue
		}
		if prior, dup := destSeen[m.ToRel]; dup {
			conflicts = append(conflicts, fmt.Sprintf("destination %q claimed by both %q and %q", m.ToRel, prior, m.FromRel))
			continue
		}
		destSeen[m.ToRel] = m.FromRel
		moved[m.FromRel] = m.ToRel
	}

	// A destination may only exist already if that file is itself moving away.
	for _, m := range normalized {
		if _, ok := ix.Note(m.ToRel); ok {
			if _, movingAway := moved[m.ToRel]; !movingAway {
				conflicts = append(conflicts, fmt.Sprintf("destination %q already exists", m.ToRel))
			}
		}
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, &BatchConflictError{Conflicts: conflicts}
	}

	plan := &Plan{Moves: normalized}
	postCounts := postMoveBaseCounts(ix, moved)

	bySource := make(map[string][]Edit)
	for _, ref := range ix.ScanAll() {
		if ref.Err != nil {
			if _, ok := moved[ref.TargetRel]; ok || targetMightMatch(ref, moved) {
				plan.Skipped = append(plan.Skipped, ref)
			}
			continue
		}
		newRel, ok := moved[ref.TargetRel]
		if !ok {
			continue
		}
		newText := ref.Link.Rewrite(linkTarget(newRel, postCounts))
		if newText == ref.Link.Raw {
			continue
		}
		bySource[ref.SourceRel] = append(bySource[ref.SourceRel], Edit{
			Offset:  ref.Link.Offset,
			Line:    ref.Line,
			OldText: ref.Link.Raw,
			NewText: newText,
		})
	}

	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		edits := bySource[src]
		sort.Slice(edits, func(i, j int) bool { return edits[i].Offset > edits[j].Offset })
		final := src
		if to, ok := moved[src]; ok {
			final = to
		}
		plan.Rewrites = append(plan.Rewrites, FileRewrite{
			SourceRel: src,
			FinalRel:  final,
			Edits:     edits,
		})
	}

	return plan, nil
}

// linkTarget picks the shortest unambiguous link text for a file at its new
// location: the bare base name when it stays unique vault-wide after the
// batch, else the full relative path.
func linkTarget(newRel string, postCounts map[string]int) string {
	base := strings.TrimSuffix(path.Base(newRel), ".md")
	if postCounts[base] == 1 {
		return base
	}
	return strings.TrimSuffix(newRel, ".md")
}

// postMoveBaseCounts simulates the corpus base-name census after the batch.
func postMoveBaseCounts(ix *refindex.Index, moved map[string]string) map[string]int {
	counts := make(map[string]int)
	for _, n := range ix.Notes() {
		rel := n.RelPath
		if to, ok := moved[rel]; ok {
			rel = to
		}
		base := strings.TrimSuffix(path.Base(rel), ".md")
		counts[base]++
	}
	return counts
}

// targetMightMatch reports whether an unresolved reference's written target
// names a file in the batch, so the skip is worth surfacing.
func targetMightMatch(ref refindex.Reference, moved map[string]string) bool {
	target := wikilink.CleanTarget(ref.Link.Target)
	for from := range moved {
		if strings.TrimSuffix(path.Base(from), ".md") == target {
			return true
		}
	}
	return false
}

func normalizeRel(rel string) string {
	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	if !strings.HasSuffix(rel, ".md") {
		rel += ".md"
	}
	return rel
}
