package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/ui"
)

var readRaw bool

var readCmd = &cobra.Command{
	Use:   "read <note>",
	Short: "Read a note",
	Long: `Prints a note's frontmatter and rendered body.

Examples:
  mgp read Objectives/Ship v2
  mgp read ship-v2 --raw
  mgp read ship-v2 --json`,
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

		note, _ := ix.Note(rel)

		if isJSONOutput() {
			data := map[string]interface{}{
				"path": note.RelPath,
				"type": note.Type(),
				"body": note.Body,
			}
			if note.Frontmatter != nil {
				data["fields"] = note.Frontmatter.Fields
			}
			outputSuccess(data, nil)
			return nil
		}

		if readRaw {
			fmt.Print(note.Content)
			return nil
		}

		fmt.Println(ui.Header(note.RelPath))
		if t := note.Type(); t != "" {
			fmt.Printf("type: %s\n", ui.TypeName(t))
		}
		if note.Frontmatter != nil {
			for key, value := range note.Frontmatter.Fields {
				fmt.Printf("%s: %v\n", key, value)
			}
		}

		display := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(note.Body, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Println(note.Body)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Print the file verbatim")
	rootCmd.AddCommand(readCmd)
}
