package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathanlmc/wrapperize/internal/output"
)

var applyCmd = &cobra.Command{
	Use:   "apply <path>",
	Short: "Re-create a wrapper from its recorded spec",
	Long: `Rebuild the wrapper for a target from the spec recorded at wrap time.

This is what the generated pacman install/upgrade hook runs after the
package manager has replaced the wrapped file with a fresh original; it can
also be run by hand after anything else clobbered a wrapper.`,
	Example: `  wrapperize apply /usr/bin/foo`,
	Args:    cobra.ExactArgs(1),
	RunE:    runApply,
}

func init() {
	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	inst, err := newInstaller()
	if err != nil {
		return err
	}
	lock, err := acquireLock(inst.Store)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	res, err := inst.Apply(args[0])
	if err != nil {
		return err
	}
	for _, warning := range res.Warnings {
		output.Warnf(os.Stderr, "%s", warning)
	}
	fmt.Printf("Re-wrapped %s\n", res.Target.OriginalPath)
	return nil
}
