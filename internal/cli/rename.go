package cli

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/mover"
	"github.com/aidanlsb/magpie/internal/refindex"
)

var renameCmd = &cobra.Command{
	Use:   "rename <note> <new-name>",
	Short: "Rename a note in place, rewriting inbound links",
	Long: `Renames a note without changing its directory and rewrites every link that
points at it. The default is a dry run; pass --execute to apply.

Examples:
  mgp rename Tasks/X "Ship v3"
  mgp rename Tasks/X "Ship v3" --execute`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		start := time.Now()

		newName := strings.TrimSuffix(args[1], ".md")
		if newName == "" || strings.Contains(newName, "/") {
			return handleErrorMsg(ErrInvalidInput,
				"new name must be a bare file name without slashes",
				"Use 'mgp move' to change a note's directory")
		}

		ix, _, err := buildIndex(vaultPath)
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

		dir := path.Dir(rel)
		toRel := newName + ".md"
		if dir != "." {
			toRel = dir + "/" + toRel
		}

		moves := []mover.Move{{FromRel: rel, ToRel: toRel}}
		return runMoveBatch(vaultPath, ix, moves, false, start)
	},
}

func init() {
	renameCmd.Flags().BoolVar(&moveExecute, "execute", false, "Apply the plan instead of printing it")
	renameCmd.Flags().BoolVar(&moveBackup, "backup", false, "Copy affected files into the state directory first")
	rootCmd.AddCommand(renameCmd)
}
