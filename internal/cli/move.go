package cli

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/mover"
	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	moveExecute bool
	moveBackup  bool
	moveYes     bool
)

var moveCmd = &cobra.Command{
	Use:   "move <note>... <directory>",
	Short: "Move notes, rewriting inbound links",
	Long: `Relocates one or more notes into a directory and rewrites every link that
points at them. Rewritten links use the shortest unambiguous form: the bare
base name while it stays unique vault-wide, otherwise the full path.

The default is a dry run showing the full plan; pass --execute to apply it.
Moving notes of more than one type in a single batch requires --yes or
interactive confirmation.

Examples:
  mgp move Tasks/X Archive
  mgp move Tasks/X Archive --execute
  mgp move Tasks/X Tasks/Y Archive --execute --backup`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		start := time.Now()

		destDir := strings.Trim(path.Clean(strings.ReplaceAll(args[len(args)-1], "\\", "/")), "/")
		sources := args[:len(args)-1]

		ix, _, err := buildIndex(vaultPath)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		moves := make([]mover.Move, 0, len(sources))
		types := make(map[string]bool)
		for _, src := range sources {
			rel, err := ix.ResolveArg(src)
			if err != nil {
				var amb *refindex.AmbiguousReferenceError
				if errors.As(err, &amb) {
					return handleErrorWithDetails(ErrRefAmbiguous, err.Error(),
						"Use the full vault-relative path",
						map[string]interface{}{"candidates": amb.Candidates})
				}
				return handleError(ErrNoteNotFound, err, "")
			}
			if n, ok := ix.Note(rel); ok {
				if t := n.Type(); t != "" {
					types[t] = true
				}
			}
			moves = append(moves, mover.Move{
				FromRel: rel,
				ToRel:   destDir + "/" + path.Base(rel),
			})
		}

		return runMoveBatch(vaultPath, ix, moves, len(types) > 1, start)
	},
}

// runMoveBatch plans and optionally executes a batch, shared by move and
// rename.
func runMoveBatch(vaultPath string, ix *refindex.Index, moves []mover.Move, multiType bool, start time.Time) error {
	plan, err := mover.Compute(ix, moves)
	if err != nil {
		var bc *mover.BatchConflictError
		if errors.As(err, &bc) {
			return handleErrorWithDetails(ErrBatchConflict, err.Error(),
				"Resolve the conflicts and retry; no files were changed",
				map[string]interface{}{"conflicts": bc.Conflicts})
		}
		return handleError(ErrInternal, err, "")
	}

	if !moveExecute {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"dry_run": true,
				"plan":    plan,
			}, &Meta{Count: plan.EditCount(), ScanTimeMs: time.Since(start).Milliseconds()})
			return nil
		}
		fmt.Print(mover.Describe(plan))
		fmt.Println(ui.Hint("Dry run; pass --execute to apply."))
		return nil
	}

	if multiType && !moveYes {
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"needs_confirm": true,
				"plan":          plan,
			}, []Warning{{
				Code:    ErrNeedsConfirm,
				Message: "batch spans more than one note type; pass --yes to proceed",
			}}, nil)
			return nil
		}
		fmt.Print(mover.Describe(plan))
		if !promptForConfirm("Batch spans more than one note type. Proceed?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	res, err := mover.Execute(vaultPath, plan, mover.Options{Backup: moveBackup})
	if err != nil {
		var bc *mover.BatchConflictError
		if errors.As(err, &bc) {
			return handleErrorWithDetails(ErrBatchConflict, err.Error(),
				"Resolve the conflicts and retry; no files were changed",
				map[string]interface{}{"conflicts": bc.Conflicts})
		}
		return handleError(ErrFileWriteError, err, "A partial batch may need manual cleanup; see the backup directory if one was made")
	}

	if isJSONOutput() {
		outputSuccess(res, &Meta{Count: res.EditsApplied, ScanTimeMs: time.Since(start).Milliseconds()})
		return nil
	}

	for _, m := range res.Moved {
		fmt.Println(ui.Successf("moved %s -> %s", m.FromRel, m.ToRel))
	}
	if res.EditsApplied > 0 {
		fmt.Printf("  updated %d link(s) in %d file(s)\n", res.EditsApplied, res.FilesEdited)
	}
	if res.BackupDir != "" {
		fmt.Printf("  backup: %s\n", ui.FilePath(res.BackupDir))
	}
	return nil
}

func init() {
	moveCmd.Flags().BoolVar(&moveExecute, "execute", false, "Apply the plan instead of printing it")
	moveCmd.Flags().BoolVar(&moveBackup, "backup", false, "Copy affected files into the state directory first")
	moveCmd.Flags().BoolVar(&moveYes, "yes", false, "Skip the multi-type batch confirmation")
	rootCmd.AddCommand(moveCmd)
}
