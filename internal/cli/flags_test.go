package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// move and rename share the dry-run machinery; their flags must stay in step.
func TestMoveAndRenameShareExecutionFlags(t *testing.T) {
	for _, name := range []string{"move", "rename"} {
		cmd, ok := findCommand(name)
		if !ok {
			t.Fatalf("command %q missing from CLI tree", name)
		}

		for _, flag := range []string{"execute", "backup"} {
			if cmd.LocalFlags().Lookup(flag) == nil {
				t.Errorf("%s is missing the --%s flag", name, flag)
			}
		}
	}
}

func TestNoCommandRedefinesGlobalFlags(t *testing.T) {
	globals := make(map[string]struct{})
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		globals[f.Name] = struct{}{}
	})

	for _, cmd := range rootCmd.Commands() {
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Name == "help" {
				return
			}
			if _, clash := globals[f.Name]; clash {
				t.Errorf("%s redefines global flag --%s", cmd.Name(), f.Name)
			}
		})
	}
}

func findCommand(name string) (*cobra.Command, bool) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd, true
		}
	}
	return nil, false
}
