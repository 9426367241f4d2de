// Package vault handles walking and mutating the note corpus on disk.
package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/magpie/internal/parser"
)

// StateDirName is the vault-internal directory for backups and tool state.
// It is always excluded from corpus scans, as is .trash.
const StateDirName = ".magpie"

// WalkResult is one file visited during a corpus walk. Err is set when the
// file could not be read or parsed; such files are skipped by collectors,
// never fatal to the walk.
type WalkResult struct {
	Path    string // absolute
	RelPath string // vault-relative, forward slashes
	Note    *parser.Note
	Err     error
}

// WalkNotes walks every markdown file in the vault and calls handler for
// each. Hidden directories, StateDirName, and .trash are skipped entirely.
func WalkNotes(vaultPath string, handler func(WalkResult) error) error {
	return filepath.WalkDir(vaultPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			rel := relPath(vaultPath, p)
			return handler(WalkResult{Path: p, RelPath: rel, Err: err})
		}

		if d.IsDir() {
			name := d.Name()
			if p != vaultPath && (strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(p, ".md") {
			return nil
		}

		rel := relPath(vaultPath, p)
		content, err := os.ReadFile(p)
		if err != nil {
			return handler(WalkResult{Path: p, RelPath: rel, Err: err})
		}

		note, err := parser.ParseNote(rel, string(content))
		if err != nil {
			return handler(WalkResult{Path: p, RelPath: rel, Err: err})
		}

		return handler(WalkResult{Path: p, RelPath: rel, Note: note})
	})
}

// CollectNotes walks the vault and returns all parseable notes plus the
// per-file failures.
func CollectNotes(vaultPath string) ([]*parser.Note, []WalkResult, error) {
	var notes []*parser.Note
	var failures []WalkResult

	err := WalkNotes(vaultPath, func(r WalkResult) error {
		if r.Err != nil {
			failures = append(failures, r)
			return nil
		}
		notes = append(notes, r.Note)
		return nil
	})

	return notes, failures, err
}

func relPath(vaultPath, p string) string {
	rel, err := filepath.Rel(vaultPath, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
