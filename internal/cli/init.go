package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new vault",
	Long: `Creates a new vault at the specified path with a starter schema.

Creates:
  - schema.json  (type definitions)
  - .magpie/     (backups and tool state)
  - .gitignore   (ignores derived files)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := os.MkdirAll(path, 0o755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create vault directory: %w", err), "")
		}

		stateDir := filepath.Join(path, ".magpie")
		if err := os.MkdirAll(stateDir, 0o755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create state directory: %w", err), "")
		}

		schemaPath := filepath.Join(path, schema.SchemaFileName)
		schemaStatus := "created"
		if _, err := os.Stat(schemaPath); err == nil {
			schemaStatus = "exists"
		} else if err := schema.CreateDefault(path); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		gitignoreStatus, err := ensureGitignore(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":      path,
				"schema":    schemaStatus,
				"gitignore": gitignoreStatus,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized vault at %s", ui.FilePath(path)))
		fmt.Printf("  schema.json %s\n", ui.Hint("("+schemaStatus+")"))
		fmt.Printf("  .gitignore %s\n", ui.Hint("("+gitignoreStatus+")"))
		return nil
	},
}

func ensureGitignore(vaultPath string) (string, error) {
	gitignorePath := filepath.Join(vaultPath, ".gitignore")
	entries := []string{".magpie/", ".trash/"}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range entries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return "unchanged", nil
	}

	status := "created"
	var content string
	if existing == "" {
		content = "# Magpie derived files - your markdown is the source of truth\n.magpie/\n.trash/\n"
	} else {
		status = "updated"
		content = strings.TrimRight(existing, "\n") + "\n\n# Magpie\n"
		for _, entry := range missing {
			content += entry + "\n"
		}
	}

	if err := os.WriteFile(gitignorePath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
