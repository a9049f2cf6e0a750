// Package pacman queries the system package manager's file-ownership
// database.
package pacman

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

// execCommand is swapped out in tests.
var execCommand = exec.Command

// Owner returns the name of the installed package that owns path, via
// `pacman -Qoq`. Files pacman does not manage fail with ErrUnowned.
func Owner(path string) (string, error) {
	cmd := execCommand("pacman", "-Qoq", "--", path)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// pacman exits non-zero with "No package owns <path>" on stderr.
			return "", fmt.Errorf("%s: %w (%s)", path, wrap.ErrUnowned,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("querying owner of %s: %w", path, err)
	}

	// -Qoq prints one package name per line; a file is owned by one package.
	name := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(name, '\n'); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return "", fmt.Errorf("%s: %w", path, wrap.ErrUnowned)
	}
	return name, nil
}
