package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/check"
	"github.com/aidanlsb/magpie/internal/ui"
	"github.com/aidanlsb/magpie/internal/watcher"
)

var watchDebug bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and re-check notes as they change",
	Long: `Watches the vault for edits and re-runs the audits on every settled
change, printing any new problems. Runs until interrupted.

Examples:
  mgp watch
  mgp watch --debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()

		recheck := func(ev watcher.Event) {
			if ev.Removed {
				fmt.Println(ui.Hint(ev.RelPath + " removed"))
			}

			reg, err := loadRegistry(vaultPath)
			if err != nil {
				fmt.Println(ui.Errorf("schema: %v", err))
				return
			}
			ix, failures, err := buildIndex(vaultPath)
			if err != nil {
				fmt.Println(ui.Errorf("scan: %v", err))
				return
			}
			for _, f := range failures {
				fmt.Println(ui.Warningf("%s: %v", f.RelPath, f.Err))
			}

			var shown int
			for _, issue := range check.New(reg, ix).Run() {
				// Only surface issues touching the changed file to keep
				// the stream readable.
				if issue.Path != ev.RelPath {
					continue
				}
				prefix := ui.SymbolError
				if issue.Level == check.LevelWarning {
					prefix = ui.SymbolWarning
				}
				fmt.Printf("%s %s  %s\n", prefix, ui.FilePath(issue.Path), issue.Message)
				shown++
			}
			if !ev.Removed && shown == 0 {
				fmt.Println(ui.Success(ev.RelPath))
			}
		}

		w, err := watcher.New(watcher.Config{
			VaultPath:     vaultPath,
			DebounceDelay: 200 * time.Millisecond,
			Debug:         watchDebug,
			OnChange:      recheck,
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s\n", ui.FilePath(vaultPath))
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			return handleError(ErrInternal, err, "")
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchDebug, "debug", false, "Log watcher events to stderr")
	rootCmd.AddCommand(watchCmd)
}
