package mover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/magpie/internal/atomicfile"
	"github.com/aidanlsb/magpie/internal/vault"
)

// Options control plan execution.
type Options struct {
	// Backup copies every affected file into the state directory before any
	// mutation.
	Backup bool
}

// Result reports what Execute changed.
type Result struct {
	Moved        []Move `json:"moved"`
	FilesEdited  int    `json:"files_edited"`
	EditsApplied int    `json:"edits_applied"`
	BackupDir    string `json:"backup_dir,omitempty"`
}

// Execute applies a computed plan: optional backup, then all file moves,
// then all link rewrites at the files' final locations. Nothing is written
// until the backup (if requested) succeeds.
//
// Destinations are re-checked against the disk first. The planner only sees
// files the corpus scan could parse, so a skipped file sitting at a
// destination would otherwise be silently overwritten by the rename.
func Execute(vaultPath string, plan *Plan, opts Options) (*Result, error) {
	sources := make(map[string]bool, len(plan.Moves))
	for _, m := range plan.Moves {
		sources[m.FromRel] = true
	}
	var conflicts []string
	for _, m := range plan.Moves {
		if sources[m.ToRel] {
			// Vacated before this rename runs; see orderMoves.
			continue
		}
		to := filepath.Join(vaultPath, filepath.FromSlash(m.ToRel))
		if _, err := os.Stat(to); err == nil {
			conflicts = append(conflicts, fmt.Sprintf("destination %q already exists", m.ToRel))
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, &BatchConflictError{Conflicts: conflicts}
	}

	res := &Result{Moved: plan.Moves}

	if opts.Backup {
		affected := affectedFiles(plan)
		dir, err := vault.BackupFiles(vaultPath, affected)
		if err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
		res.BackupDir = dir
	}

	for _, m := range orderMoves(plan.Moves) {
		from := filepath.Join(vaultPath, filepath.FromSlash(m.FromRel))
		to := filepath.Join(vaultPath, filepath.FromSlash(m.ToRel))
		if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
			return res, fmt.Errorf("create %s: %w", filepath.Dir(m.ToRel), err)
		}
		if err := os.Rename(from, to); err != nil {
			return res, fmt.Errorf("move %s: %w", m.FromRel, err)
		}
	}

	for _, rw := range plan.Rewrites {
		if err := applyRewrite(vaultPath, rw); err != nil {
			return res, err
		}
		res.FilesEdited++
		res.EditsApplied += len(rw.Edits)
	}

	return res, nil
}

// orderMoves sequences the renames so every destination is vacant when its
// rename runs. A move whose destination is another pending source waits for
// that source to move first; a pure cycle is broken by detouring one member
// through a temporary name.
func orderMoves(moves []Move) []Move {
	pending := append([]Move(nil), moves...)
	ordered := make([]Move, 0, len(moves))

	for len(pending) > 0 {
		srcs := make(map[string]bool, len(pending))
		for _, m := range pending {
			srcs[m.FromRel] = true
		}

		var blocked []Move
		progressed := false
		for _, m := range pending {
			if srcs[m.ToRel] && m.ToRel != m.FromRel {
				blocked = append(blocked, m)
				continue
			}
			ordered = append(ordered, m)
			progressed = true
		}
		if !progressed {
			tmp := blocked[0].FromRel + ".moving"
			ordered = append(ordered, Move{FromRel: blocked[0].FromRel, ToRel: tmp})
			blocked[0] = Move{FromRel: tmp, ToRel: blocked[0].ToRel}
		}
		pending = blocked
	}

	return ordered
}

// applyRewrite splices a file's edits in descending offset order, verifying
// each old span still matches before cutting.
func applyRewrite(vaultPath string, rw FileRewrite) error {
	abs := filepath.Join(vaultPath, filepath.FromSlash(rw.FinalRel))
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", rw.FinalRel, err)
	}

	content := string(data)
	for _, e := range rw.Edits {
		end := e.Offset + len(e.OldText)
		if e.Offset < 0 || end > len(content) || content[e.Offset:end] != e.OldText {
			return fmt.Errorf("rewrite %s: content changed at offset %d", rw.FinalRel, e.Offset)
		}
		content = content[:e.Offset] + e.NewText + content[end:]
	}

	if err := atomicfile.WriteFile(abs, []byte(content), 0); err != nil {
		return fmt.Errorf("rewrite %s: %w", rw.FinalRel, err)
	}
	return nil
}

// affectedFiles lists every pre-move path the plan will touch, deduplicated.
func affectedFiles(plan *Plan) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	for _, m := range plan.Moves {
		add(m.FromRel)
	}
	for _, rw := range plan.Rewrites {
		add(rw.SourceRel)
	}
	return out
}

// Describe renders a human-readable preview of the plan.
func Describe(plan *Plan) string {
	var b strings.Builder
	for _, m := range plan.Moves {
		fmt.Fprintf(&b, "%s -> %s\n", m.FromRel, m.ToRel)
	}
	for _, rw := range plan.Rewrites {
		fmt.Fprintf(&b, "  %s: %d link(s)\n", rw.SourceRel, len(rw.Edits))
		for i := len(rw.Edits) - 1; i >= 0; i-- {
			e := rw.Edits[i]
			fmt.Fprintf(&b, "    L%d: %s -> %s\n", e.Line, e.OldText, e.NewText)
		}
	}
	return b.String()
}
