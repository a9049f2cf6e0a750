package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathanlmc/wrapperize/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor wrapped programs and re-wrap them when replaced",
	Long: `Watch every wrapped program's directory and re-apply the recorded wrap
whenever something replaces the wrapper with a fresh binary.

Pacman hooks already cover package-managed targets; watch exists for wraps
created with --no-hooks (files under /home, /usr/local, ...), which no hook
can protect. Runs in the foreground; stop with Ctrl+C.`,
	Example: `  wrapperize watch`,
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inst, err := newInstaller()
	if err != nil {
		return err
	}

	w := watcher.New(inst.Store, inst)
	if err := w.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Fprintf(os.Stderr, "received %s, stopping\n", sig)

	w.Stop()
	return nil
}
