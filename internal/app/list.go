package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathanlmc/wrapperize/internal/output"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
	"github.com/jonathanlmc/wrapperize/internal/wrapper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all wrapped programs",
	Long: `List every wrapped program known to the state directory, with its
injections and current health. The listing is reconstructed entirely from
the filesystem: spec sidecars, wrapper markers, and relocated binaries.

Status meanings:
  active    wrapper in place, relocated original present
  broken    spec exists but the wrapper or the relocated original is gone
  no hooks  wrap is healthy but has no pacman hooks (--no-hooks)`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store := newStore()

	targets, err := store.Targets()
	if err != nil {
		return err
	}

	var rows []*output.WrapRow
	for _, target := range targets {
		spec, err := wrap.Load(store.SpecPath(target))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", target, err)
			continue
		}
		rows = append(rows, &output.WrapRow{
			Target:  target,
			Details: output.SummarizeInjections(len(spec.ArgsBefore)+len(spec.ArgsAfter), len(spec.Env)),
			Package: spec.Package,
			Status:  wrapStatus(target, spec),
		})
	}

	fmt.Print(output.RenderWrapTable(rows))
	return nil
}

// wrapStatus inspects disk state for a recorded wrap.
func wrapStatus(target string, spec *wrap.Spec) string {
	relocated, wrapped, err := wrapper.Detect(target)
	if err != nil || !wrapped {
		return "broken"
	}
	if _, err := os.Stat(relocated); err != nil {
		return "broken"
	}
	if spec.NoHooks {
		return "no hooks"
	}
	return "active"
}
