// Package app wires the wrapperize command tree.
package app

import (
	"github.com/spf13/cobra"

	"github.com/jonathanlmc/wrapperize/internal/hook"
	"github.com/jonathanlmc/wrapperize/internal/relocate"
)

var (
	stateDir string
	hookDir  string

	// RootCmd is the root command for wrapperize.
	RootCmd = &cobra.Command{
		Use:   "wrapperize",
		Short: "Wrap executables to always run with extra arguments or environment",
		Long: `wrapperize replaces an installed executable with a small launcher that
re-invokes the real binary with extra command-line arguments and/or
environment variables, transparently, for every future invocation.

The real binary moves to a reserved state directory; pacman hooks are
generated so the wrap survives package installs, upgrades, and removals.
All state lives on the filesystem (wrapper marker, relocated binary, spec
sidecar): there is no database to lose.

Examples:
  # Always run foo with --verbose
  wrapperize wrap /usr/bin/foo --arg --verbose

  # Inject an environment variable, prepend to a search path
  wrapperize wrap foo -e FOO=bar --env-append PATH=/opt/x/bin

  # Change an existing wrap
  wrapperize wrap /usr/bin/foo --arg --quiet --update

  # Undo everything
  wrapperize unwrap /usr/bin/foo

  # Show what is wrapped
  wrapperize list

  # Keep --no-hooks wraps alive (pacman cannot)
  wrapperize watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", relocate.DefaultRoot,
		"directory holding relocated binaries and wrap specs")
	RootCmd.PersistentFlags().StringVar(&hookDir, "hook-dir", hook.DefaultDir,
		"pacman hook directory")
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
