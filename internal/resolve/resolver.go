// Package resolve locates the real executable behind a program name or
// path, seeing through an already-installed wrapper so repeated runs stay
// idempotent.
package resolve

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jonathanlmc/wrapperize/internal/relocate"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
	"github.com/jonathanlmc/wrapperize/internal/wrapper"
)

// Target describes where a program currently is on disk. It is derived
// fresh from disk state on every run and never persisted.
type Target struct {
	// OriginalPath is the canonical path callers invoke, i.e. where the
	// wrapper goes (or already is).
	OriginalPath string

	// RelocatedPath is where the real binary lives once wrapped. For an
	// already-wrapped target this comes from the wrapper's marker; otherwise
	// it is derived from the store convention.
	RelocatedPath string

	// Wrapped reports whether OriginalPath currently holds a wrapper.
	Wrapped bool

	// Mode holds the permission bits found at OriginalPath.
	Mode os.FileMode
}

// Resolve turns an identifier (bare program name or path) into a Target.
// Bare names are searched on PATH; paths are made absolute. Inspection
// only, no side effects.
func Resolve(identifier string, store *relocate.Store) (*Target, error) {
	path := identifier
	if !strings.ContainsRune(identifier, filepath.Separator) {
		found, err := exec.LookPath(identifier)
		if err != nil {
			return nil, fmt.Errorf("%q: %w on PATH", identifier, wrap.ErrNotFound)
		}
		path = found
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", abs, wrap.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", abs, wrap.ErrNotFound)
	}
	if info.Mode().Perm()&0111 == 0 {
		return nil, fmt.Errorf("%s is not executable: %w", abs, wrap.ErrNotFound)
	}

	target := &Target{OriginalPath: abs, Mode: info.Mode().Perm()}

	relocated, wrapped, err := wrapper.Detect(abs)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", abs, err)
	}
	if wrapped {
		// Never wrap a wrapper: report the existing wrap so the caller
		// updates it in place.
		if _, err := os.Stat(relocated); err != nil {
			return nil, fmt.Errorf("wrapper at %s points at missing original %s: %w", abs, relocated, err)
		}
		target.Wrapped = true
		target.RelocatedPath = relocated
		return target, nil
	}

	target.RelocatedPath = store.BinaryPath(abs)
	return target, nil
}
