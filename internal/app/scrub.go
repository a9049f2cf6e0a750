package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scrubCmd = &cobra.Command{
	Use:   "scrub <path>",
	Short: "Remove every trace of a wrap without restoring the original",
	Long: `Delete whatever remains of a wrap: the wrapper (if still present), the
relocated original, the recorded spec, and the hook files.

This is what the generated pacman removal hook runs after the owning
package is uninstalled: pacman deletes the wrapper at the target path but
knows nothing about the rest. Prefer 'unwrap' while the package is still
installed.`,
	Example: `  wrapperize scrub /usr/bin/foo`,
	Args:    cobra.ExactArgs(1),
	RunE:    runScrub,
}

func init() {
	RootCmd.AddCommand(scrubCmd)
}

func runScrub(cmd *cobra.Command, args []string) error {
	inst, err := newInstaller()
	if err != nil {
		return err
	}
	lock, err := acquireLock(inst.Store)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := inst.Scrub(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed all traces of wrap for %s\n", args[0])
	return nil
}
