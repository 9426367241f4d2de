package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/check"
	"github.com/aidanlsb/magpie/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the vault",
	Long: `Audits every note against the schema: broken and ambiguous references,
missing heading fragments, hierarchy cycles, ownership conflicts, invalid
field values, and misplaced files.

Examples:
  mgp check
  mgp check --json`,
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

		issues := check.New(reg, ix).Run()
		errorCount := check.ErrorCount(issues)
		warningCount := len(issues) - errorCount
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"issues":   issues,
				"errors":   errorCount,
				"warnings": warningCount,
			}, scanWarnings(failures), &Meta{Count: len(issues), ScanTimeMs: elapsed})
			return nil
		}

		for _, f := range failures {
			fmt.Println(ui.Warningf("%s: %v", f.RelPath, f.Err))
		}
		for _, issue := range issues {
			line := ""
			if issue.Line > 0 {
				line = fmt.Sprintf(":%d", issue.Line)
			}
			prefix := ui.SymbolError
			if issue.Level == check.LevelWarning {
				prefix = ui.SymbolWarning
			}
			fmt.Printf("%s %s%s  %s\n", prefix, ui.FilePath(issue.Path), line, issue.Message)
		}

		if len(issues) == 0 && len(failures) == 0 {
			fmt.Println(ui.Successf("%d notes checked, no problems", len(ix.Notes())))
			return nil
		}
		fmt.Printf("\n%d error(s), %d warning(s)\n", errorCount, warningCount)
		if errorCount > 0 {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
