package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/ui"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage configured vaults",
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured vaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		vaults := cfg.ListVaults()
		names := make([]string, 0, len(vaults))
		for name := range vaults {
			names = append(names, name)
		}
		sort.Strings(names)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default": cfg.DefaultVault,
				"vaults":  vaults,
			}, &Meta{Count: len(vaults)})
			return nil
		}

		if len(names) == 0 {
			fmt.Println("No vaults configured.")
			fmt.Println(ui.Hint("Add one under [vaults] in " + config.DefaultPath()))
			return nil
		}
		for _, name := range names {
			marker := "  "
			if name == cfg.DefaultVault {
				marker = ui.SymbolSuccess + " "
			}
			fmt.Printf("%s%s  %s\n", marker, name, ui.FilePath(vaults[name]))
		}
		return nil
	},
}

var vaultUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if _, ok := cfg.Vaults[name]; !ok {
			return handleErrorMsg(ErrVaultNotFound,
				fmt.Sprintf("vault '%s' not found in config", name),
				"Run 'mgp vault list' to see configured vaults")
		}

		cfg.DefaultVault = name
		savePath := config.DefaultPath()
		if configPath != "" {
			savePath = configPath
		}
		if err := config.SaveTo(savePath, cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"default": name}, nil)
			return nil
		}
		fmt.Println(ui.Successf("default vault is now '%s'", name))
		return nil
	},
}

func init() {
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultUseCmd)
	rootCmd.AddCommand(vaultCmd)
}
