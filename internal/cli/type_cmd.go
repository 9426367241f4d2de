package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/ui"
)

// FieldJSON is the JSON representation of one resolved field.
type FieldJSON struct {
	Name     string      `json:"name"`
	Prompt   string      `json:"prompt"`
	Required bool        `json:"required,omitempty"`
	Default  interface{} `json:"default,omitempty"`
	Options  []string    `json:"options,omitempty"`
	Targets  []string    `json:"targets,omitempty"`
	Owned    bool        `json:"owned,omitempty"`
	Multiple bool        `json:"multiple,omitempty"`
}

// TypeDetailJSON is the JSON representation of one resolved type.
type TypeDetailJSON struct {
	Name      string      `json:"name"`
	Ancestors []string    `json:"ancestors"`
	Children  []string    `json:"children,omitempty"`
	OutputDir string      `json:"output_dir"`
	Recursive bool        `json:"recursive,omitempty"`
	Fields    []FieldJSON `json:"fields"`
}

var typeCmd = &cobra.Command{
	Use:   "type <name>",
	Short: "Show a type's resolved definition",
	Long: `Shows a type's merged field set (ancestor fields folded in), its storage
directory, and its position in the inheritance tree.

Examples:
  mgp type task
  mgp type task --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		name := args[0]

		reg, err := loadRegistry(vaultPath)
		if err != nil {
			return handleError(ErrSchemaInvalid, err, "Fix schema.json and retry")
		}

		node, ok := reg.Resolve(name)
		if !ok {
			return handleErrorMsg(ErrTypeNotFound,
				fmt.Sprintf("type '%s' not found", name),
				"Run 'mgp types' to list defined types")
		}

		dir, _ := reg.OutputDir(node.Name)
		detail := TypeDetailJSON{
			Name:      node.Name,
			Ancestors: reg.Ancestors(node.Name),
			Children:  node.Children,
			OutputDir: dir,
			Recursive: node.Recursive,
		}
		for _, fieldName := range node.ResolvedOrder {
			detail.Fields = append(detail.Fields, fieldJSON(fieldName, node.ResolvedFields[fieldName]))
		}

		if isJSONOutput() {
			outputSuccess(detail, nil)
			return nil
		}

		fmt.Println(ui.Header(detail.Name))
		if len(detail.Ancestors) > 0 {
			fmt.Printf("  extends: %s\n", strings.Join(detail.Ancestors, " < "))
		}
		fmt.Printf("  directory: %s\n", ui.FilePath(detail.OutputDir))
		if detail.Recursive {
			fmt.Println("  recursive: instances may nest under a parent instance")
		}
		if len(detail.Fields) > 0 {
			fmt.Println("  fields:")
			for _, f := range detail.Fields {
				fmt.Printf("    %s %s%s\n", f.Name, ui.Hint(f.Prompt), fieldSuffix(f))
			}
		}
		return nil
	},
}

func fieldJSON(name string, f *schema.Field) FieldJSON {
	out := FieldJSON{
		Name:     name,
		Prompt:   string(f.Kind),
		Required: f.Required,
		Default:  f.Default,
	}
	if f.Select != nil {
		out.Options = f.Select.Options
	}
	if f.Relation != nil {
		out.Targets = f.Relation.Targets
		out.Owned = f.Relation.Owned
		out.Multiple = f.Relation.Multiple
	}
	return out
}

func fieldSuffix(f FieldJSON) string {
	var parts []string
	if f.Required {
		parts = append(parts, "required")
	}
	if f.Default != nil {
		parts = append(parts, fmt.Sprintf("default=%v", f.Default))
	}
	if len(f.Options) > 0 {
		parts = append(parts, "["+strings.Join(f.Options, ", ")+"]")
	}
	if len(f.Targets) > 0 {
		parts = append(parts, "-> "+strings.Join(f.Targets, "|"))
	}
	if f.Owned {
		parts = append(parts, "owned")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + ui.Hint(strings.Join(parts, " "))
}

func init() {
	rootCmd.AddCommand(typeCmd)
}
