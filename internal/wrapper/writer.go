// Package wrapper emits and recognizes the launcher installed at a wrapped
// program's original path.
//
// The launcher is a small POSIX sh script: it exports the injected
// environment, then execs the relocated original with the configured extra
// arguments around the caller's own. exec replaces the process image, so
// exit codes and signals pass through unchanged and no extra process hangs
// around.
//
// Line 2 of the script is a machine-readable marker naming the relocated
// path. Detection is a pure read of the file head, never an execution, and
// the marker alone is enough to reverse the wrap.
package wrapper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathanlmc/wrapperize/internal/fsutil"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

// MarkerPrefix introduces the marker line identifying a wrapper and the
// relocated original it launches.
const MarkerPrefix = "# wrapperize-wrapper: "

// detectLimit bounds how much of a file Detect reads. The marker sits on
// line 2, so 4 KiB is generous.
const detectLimit = 4096

// valueEscaper escapes a string for a double-quoted sh context.
var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// Render produces the launcher script for a target whose original now lives
// at relocatedPath.
func Render(relocatedPath string, spec *wrap.Spec) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(MarkerPrefix + relocatedPath + "\n")
	fmt.Fprintf(&b, "# Managed by wrapperize; run `wrapperize unwrap %s` to remove.\n", spec.Target)

	for _, v := range spec.Env {
		if v.Append {
			// Prepend the injected value so it wins lookup order, keeping
			// the inherited tail when one exists.
			fmt.Fprintf(&b, "export %s=\"%s${%s:+:$%s}\"\n", v.Name, valueEscaper.Replace(v.Value), v.Name, v.Name)
		} else {
			fmt.Fprintf(&b, "export %s=\"%s\"\n", v.Name, valueEscaper.Replace(v.Value))
		}
	}

	fmt.Fprintf(&b, "exec \"%s\"", valueEscaper.Replace(relocatedPath))
	for _, arg := range spec.ArgsBefore {
		fmt.Fprintf(&b, " \"%s\"", valueEscaper.Replace(arg))
	}
	b.WriteString(" \"$@\"")
	for _, arg := range spec.ArgsAfter {
		fmt.Fprintf(&b, " \"%s\"", valueEscaper.Replace(arg))
	}
	b.WriteString("\n")
	return b.String()
}

// Write renders the launcher and writes it to path with the given
// permission bits (the bits captured from the original binary).
func Write(path, relocatedPath string, spec *wrap.Spec, mode os.FileMode) error {
	if err := fsutil.WriteFile(path, []byte(Render(relocatedPath, spec)), mode); err != nil {
		return fmt.Errorf("%s: %w: %v", path, wrap.ErrWrite, err)
	}
	return nil
}

// Detect reports whether the file at path is a wrapper, and if so which
// relocated path its marker records. A missing or unreadable file returns
// the read error; a readable non-wrapper returns ok=false.
func Detect(path string) (relocated string, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	buf := make([]byte, detectLimit)
	n, err := f.Read(buf)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	for _, line := range strings.SplitN(string(buf[:n]), "\n", 4) {
		if rest, found := strings.CutPrefix(line, MarkerPrefix); found {
			return rest, true, nil
		}
	}
	return "", false, nil
}
