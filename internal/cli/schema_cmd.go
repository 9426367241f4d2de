package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/ui"
)

// OwnershipJSON is one ownership declaration in schema output.
type OwnershipJSON struct {
	Owner    string `json:"owner"`
	Field    string `json:"field"`
	Child    string `json:"child"`
	Multiple bool   `json:"multiple,omitempty"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Validate the schema and show its structure",
	Long: `Loads schema.json, reports any validation error, and on success prints the
inheritance tree and ownership declarations.

Examples:
  mgp schema
  mgp schema --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()

		reg, err := loadRegistry(vaultPath)
		if err != nil {
			var conflict *schema.OwnershipConflictError
			if errors.As(err, &conflict) {
				return handleErrorWithDetails(ErrOwnershipConflict, err.Error(),
					"Remove all but one owned declaration targeting the child type",
					map[string]interface{}{"child": conflict.Child})
			}
			return handleError(ErrSchemaInvalid, err, "Fix schema.json and retry")
		}

		var ownerships []OwnershipJSON
		owns := reg.Ownership()
		for _, node := range reg.Types() {
			for _, decl := range owns.Owns[node.Name] {
				ownerships = append(ownerships, OwnershipJSON{
					Owner:    node.Name,
					Field:    decl.Field,
					Child:    decl.Child,
					Multiple: decl.Multiple,
				})
			}
		}

		if isJSONOutput() {
			typeNames := make([]string, 0)
			for _, node := range reg.Types() {
				if !node.IsRoot() {
					typeNames = append(typeNames, node.Name)
				}
			}
			outputSuccess(map[string]interface{}{
				"valid":      true,
				"types":      typeNames,
				"ownerships": ownerships,
			}, &Meta{Count: len(typeNames)})
			return nil
		}

		fmt.Println(ui.Success("schema.json is valid"))
		printTypeTree(reg.Root().Children, reg, 1)
		if len(ownerships) > 0 {
			fmt.Println(ui.Header("ownership"))
			for _, o := range ownerships {
				fmt.Printf("  %s.%s owns %s\n", ui.TypeName(o.Owner), o.Field, o.Child)
			}
		}
		return nil
	},
}

func printTypeTree(names []string, reg *schema.Registry, depth int) {
	for _, name := range names {
		node, ok := reg.Resolve(name)
		if !ok {
			continue
		}
		for i := 0; i < depth; i++ {
			fmt.Print("  ")
		}
		fmt.Println(ui.TypeName(name))
		printTypeTree(node.Children, reg, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
