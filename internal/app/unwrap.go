package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unwrapCmd = &cobra.Command{
	Use:   "unwrap <program>",
	Short: "Remove a wrap and restore the original executable",
	Long: `Delete the wrapper, move the original executable back to its path with
its permission bits intact, and remove the pacman hook files for the
target. Fails if the program is not currently wrapped.`,
	Example: `  wrapperize unwrap /usr/bin/foo
  wrapperize unwrap foo`,
	Args: cobra.ExactArgs(1),
	RunE: runUnwrap,
}

func init() {
	RootCmd.AddCommand(unwrapCmd)
}

func runUnwrap(cmd *cobra.Command, args []string) error {
	inst, err := newInstaller()
	if err != nil {
		return err
	}
	lock, err := acquireLock(inst.Store)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	target, err := inst.Unwrap(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Unwrapped %s\n", target.OriginalPath)
	return nil
}
