package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/ui"
)

// TypeSummaryJSON is the JSON representation of one type in a listing.
type TypeSummaryJSON struct {
	Name      string `json:"name"`
	Extends   string `json:"extends,omitempty"`
	OutputDir string `json:"output_dir"`
	Recursive bool   `json:"recursive,omitempty"`
	Concrete  bool   `json:"concrete"`
	Fields    int    `json:"fields"`
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List schema types",
	Long: `Lists every type in the schema with its storage directory and whether the
vault currently contains instances of it.

Examples:
  mgp types
  mgp types --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		start := time.Now()

		reg, err := loadRegistry(vaultPath)
		if err != nil {
			return handleError(ErrSchemaInvalid, err, "Fix schema.json and retry")
		}

		ix, failures, err := buildIndex(vaultPath)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		corpus := refindex.BuildCorpus(reg, ix)

		var items []TypeSummaryJSON
		for _, node := range reg.Types() {
			if node.IsRoot() {
				continue
			}
			dir, _ := reg.OutputDir(node.Name)
			items = append(items, TypeSummaryJSON{
				Name:      node.Name,
				Extends:   node.Parent,
				OutputDir: dir,
				Recursive: node.Recursive,
				Concrete:  reg.IsConcrete(node.Name, corpus),
				Fields:    len(node.ResolvedFields),
			})
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"items": items},
				scanWarnings(failures), &Meta{Count: len(items), ScanTimeMs: elapsed})
			return nil
		}

		if len(items) == 0 {
			fmt.Println("No types defined.")
			return nil
		}
		for _, item := range items {
			marker := ui.Hint("abstract")
			if item.Concrete {
				marker = "concrete"
			}
			extends := ""
			if item.Extends != "" && item.Extends != "note" {
				extends = ui.Hint(" < " + item.Extends)
			}
			fmt.Printf("%s%s  %s  %s\n", ui.TypeName(item.Name), extends, ui.FilePath(item.OutputDir), marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
