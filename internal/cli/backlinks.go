package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/ui"
)

// BacklinkJSON is the JSON representation of one inbound reference.
type BacklinkJSON struct {
	Source        string `json:"source"`
	Line          int    `json:"line"`
	Text          string `json:"text"`
	InFrontmatter bool   `json:"in_frontmatter,omitempty"`
}

var backlinksCmd = &cobra.Command{
	Use:   "backlinks <note>",
	Short: "Show references to a note",
	Long: `Shows every link in the vault that resolves to the given note.

Examples:
  mgp backlinks Objectives/Ship v2
  mgp backlinks ship-v2 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		start := time.Now()

		ix, failures, err := buildIndex(vaultPath)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		rel, err := ix.ResolveArg(args[0])
		if err != nil {
			var amb *refindex.AmbiguousReferenceError
			if errors.As(err, &amb) {
				return handleErrorWithDetails(ErrRefAmbiguous, err.Error(),
					"Use the full vault-relative path",
					map[string]interface{}{"candidates": amb.Candidates})
			}
			return handleError(ErrNoteNotFound, err, "")
		}

		refs := ix.ReferencesTo(rel)
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			items := make([]BacklinkJSON, len(refs))
			for i, ref := range refs {
				items[i] = BacklinkJSON{
					Source:        ref.SourceRel,
					Line:          ref.Line,
					Text:          ref.Link.Raw,
					InFrontmatter: ref.InFrontmatter,
				}
			}
			outputSuccessWithWarnings(map[string]interface{}{
				"target": rel,
				"items":  items,
			}, scanWarnings(failures), &Meta{Count: len(items), ScanTimeMs: elapsed})
			return nil
		}

		if len(refs) == 0 {
			fmt.Printf("No backlinks found for '%s'\n", rel)
			return nil
		}

		fmt.Printf("Backlinks to %s:\n\n", ui.FilePath(rel))
		for _, ref := range refs {
			fmt.Printf("  %s:%s  %s\n", ui.FilePath(ref.SourceRel), ui.LineNum(ref.Line), ref.Link.Raw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backlinksCmd)
}
