package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/ui"
	"github.com/aidanlsb/magpie/internal/vault"
)

var openCmd = &cobra.Command{
	Use:   "open <note>",
	Short: "Open a note in your editor",
	Long: `Opens a note in your configured editor.

The editor is determined by (in order):
  1. The 'editor' setting in ~/.config/magpie/config.toml
  2. The $EDITOR environment variable

Examples:
  mgp open Objectives/Ship v2
  mgp open ship-v2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()

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

		abs := filepath.Join(vaultPath, filepath.FromSlash(rel))
		cfg := getConfig()

		if isJSONOutput() {
			editor := ""
			if cfg != nil {
				editor = cfg.GetEditor()
			}
			opened := vault.OpenInEditor(cfg, abs)
			outputSuccess(map[string]interface{}{
				"file":   rel,
				"opened": opened,
				"editor": editor,
			}, nil)
			return nil
		}

		if vault.OpenInEditor(cfg, abs) {
			fmt.Printf("Opening %s\n", ui.FilePath(rel))
			return nil
		}
		fmt.Printf("Open: %s\n", abs)
		fmt.Println(ui.Hint("Set 'editor' in ~/.config/magpie/config.toml or $EDITOR to open automatically"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
