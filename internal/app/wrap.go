package app

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathanlmc/wrapperize/internal/output"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

var (
	wrapFlagArgs      []string
	wrapFlagArgsAfter []string
	wrapFlagEnvs      []string
	wrapFlagEnvAppend []string
	wrapFlagEnvFile   string
	wrapFlagNoHooks   bool
	wrapFlagUpdate    bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <program>",
	Short: "Install a wrapper that injects arguments and environment",
	Long: `Replace a program with a launcher that injects the given arguments and
environment variables, then runs the real binary (moved to the state
directory). Pacman hooks are generated so the wrap is re-created whenever
the owning package is installed or upgraded, and cleaned up on removal.

The program may be a bare name (searched on PATH) or a path. Wrapping an
already-wrapped program requires --update and changes the existing wrap in
place; wrappers never nest.`,
	Example: `  wrapperize wrap /usr/bin/foo --arg --verbose
  wrapperize wrap foo -e FOO=bar --env-append PATH=/opt/x/bin
  wrapperize wrap ~/bin/tool --arg --color=always --no-hooks
  wrapperize wrap /usr/bin/foo --env-file /etc/foo/wrap.env
  wrapperize wrap /usr/bin/foo --arg --quiet --update`,
	Args: cobra.ExactArgs(1),
	RunE: runWrap,
}

func init() {
	wrapCmd.Flags().StringArrayVarP(&wrapFlagArgs, "arg", "a", nil,
		"argument injected before the caller's arguments (repeatable)")
	wrapCmd.Flags().StringArrayVar(&wrapFlagArgsAfter, "arg-after", nil,
		"argument injected after the caller's arguments (repeatable)")
	wrapCmd.Flags().StringArrayVarP(&wrapFlagEnvs, "env", "e", nil,
		"NAME=value environment variable to inject (repeatable)")
	wrapCmd.Flags().StringArrayVar(&wrapFlagEnvAppend, "env-append", nil,
		"NAME=value list variable; value is prepended to any inherited value")
	wrapCmd.Flags().StringVar(&wrapFlagEnvFile, "env-file", "",
		"dotenv file with additional variables to inject")
	wrapCmd.Flags().BoolVar(&wrapFlagNoHooks, "no-hooks", false,
		"skip pacman hook generation, for files pacman does not manage")
	wrapCmd.Flags().BoolVar(&wrapFlagUpdate, "update", false,
		"replace the configuration of an existing wrap")
	RootCmd.AddCommand(wrapCmd)
}

func runWrap(cmd *cobra.Command, args []string) error {
	spec, err := buildSpec()
	if err != nil {
		return err
	}

	inst, err := newInstaller()
	if err != nil {
		return err
	}
	lock, err := acquireLock(inst.Store)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	res, err := inst.Wrap(args[0], spec, wrapFlagUpdate)
	if err != nil {
		return err
	}

	for _, warning := range res.Warnings {
		output.Warnf(os.Stderr, "%s", warning)
	}
	if res.Package != "" {
		fmt.Printf("Wrapped %s (package %s)\n", res.Target.OriginalPath, res.Package)
	} else {
		fmt.Printf("Wrapped %s\n", res.Target.OriginalPath)
	}
	return nil
}

// buildSpec assembles a wrap spec from the command-line flags.
func buildSpec() (*wrap.Spec, error) {
	spec := &wrap.Spec{
		ArgsBefore: wrapFlagArgs,
		ArgsAfter:  wrapFlagArgsAfter,
		NoHooks:    wrapFlagNoHooks,
	}

	for _, s := range wrapFlagEnvs {
		v, err := wrap.ParseVariable(s, false)
		if err != nil {
			return nil, err
		}
		spec.Env = append(spec.Env, v)
	}
	for _, s := range wrapFlagEnvAppend {
		v, err := wrap.ParseVariable(s, true)
		if err != nil {
			return nil, err
		}
		spec.Env = append(spec.Env, v)
	}

	if wrapFlagEnvFile != "" {
		vars, err := godotenv.Read(wrapFlagEnvFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", wrapFlagEnvFile, err)
		}
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !wrap.ValidName(name) {
				return nil, fmt.Errorf("invalid environment variable name %q in %s", name, wrapFlagEnvFile)
			}
			spec.Env = append(spec.Env, wrap.Variable{Name: name, Value: vars[name]})
		}
	}

	if spec.Empty() {
		return nil, errors.New("nothing to inject: provide at least one --arg, --env, or --env-file")
	}
	return spec, nil
}
