// Package install sequences the end-to-end wrap and unwrap operations:
// resolve the real binary, relocate it, write the wrapper, register hooks,
// and the reverse. Each filesystem mutation is a rename where possible, and
// any failure after the original has moved triggers a best-effort rollback
// so the system is never left without an executable at the expected path.
package install

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathanlmc/wrapperize/internal/fsutil"
	"github.com/jonathanlmc/wrapperize/internal/hook"
	"github.com/jonathanlmc/wrapperize/internal/pacman"
	"github.com/jonathanlmc/wrapperize/internal/relocate"
	"github.com/jonathanlmc/wrapperize/internal/resolve"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
	"github.com/jonathanlmc/wrapperize/internal/wrapper"
)

// Installer orchestrates wrap lifecycle operations against one state root.
type Installer struct {
	Store *relocate.Store
	Hooks *hook.Generator

	// Owner queries which installed package owns a file. Overridable for
	// tests and hosts without pacman.
	Owner func(path string) (string, error)

	// Stderr receives rollback diagnostics that must not be swallowed.
	Stderr io.Writer
}

// New returns an Installer using the real pacman ownership query.
func New(store *relocate.Store, hooks *hook.Generator) *Installer {
	return &Installer{
		Store:  store,
		Hooks:  hooks,
		Owner:  pacman.Owner,
		Stderr: os.Stderr,
	}
}

// Result reports a completed wrap.
type Result struct {
	Target  *resolve.Target
	Package string

	// Warnings are hook-stage problems: the wrap itself succeeded, but it
	// will not survive the next package transaction.
	Warnings []string
}

// Wrap installs (or with update=true, refreshes) a wrapper for identifier.
func (in *Installer) Wrap(identifier string, spec *wrap.Spec, update bool) (*Result, error) {
	target, err := resolve.Resolve(identifier, in.Store)
	if err != nil {
		return nil, err
	}
	spec.Target = target.OriginalPath

	if target.Wrapped {
		if !update {
			return nil, fmt.Errorf("%s: %w (use --update to change the existing wrap)",
				target.OriginalPath, wrap.ErrAlreadyWrapped)
		}
		return in.refresh(target, spec)
	}

	relocated, err := in.Store.Claim(target.OriginalPath)
	if err != nil {
		return nil, err
	}

	// Stage the wrapper beside the target before the original moves, so the
	// target path is only missing between two renames. This also proves the
	// directory is writable before anything is mutated.
	staged := target.OriginalPath + ".wrapperize-staged"
	if err := wrapper.Write(staged, relocated, spec, target.Mode); err != nil {
		os.Remove(staged)
		return nil, fmt.Errorf("staging wrapper: %w", err)
	}

	if err := fsutil.Move(target.OriginalPath, relocated); err != nil {
		os.Remove(staged)
		return nil, fmt.Errorf("relocating %s: %w", target.OriginalPath, err)
	}

	if err := os.Rename(staged, target.OriginalPath); err != nil {
		os.Remove(staged)
		in.restore(relocated, target.OriginalPath)
		return nil, fmt.Errorf("installing wrapper at %s: %w: %v", target.OriginalPath, wrap.ErrWrite, err)
	}

	if err := spec.Save(in.Store.SpecPath(target.OriginalPath)); err != nil {
		// Without the sidecar the wrap cannot be rebuilt or listed; undo.
		os.Remove(target.OriginalPath)
		in.restore(relocated, target.OriginalPath)
		return nil, fmt.Errorf("recording wrap spec: %w", err)
	}

	res := &Result{Target: target}
	in.hookStep(res, spec)
	return res, nil
}

// refresh rewrites an existing wrap in place: new wrapper content, new
// sidecar, regenerated hooks. The original stays where it already is.
func (in *Installer) refresh(target *resolve.Target, spec *wrap.Spec) (*Result, error) {
	if err := wrapper.Write(target.OriginalPath, target.RelocatedPath, spec, target.Mode); err != nil {
		return nil, fmt.Errorf("rewriting wrapper: %w", err)
	}
	if err := spec.Save(in.Store.SpecPath(target.OriginalPath)); err != nil {
		return nil, fmt.Errorf("recording wrap spec: %w", err)
	}

	res := &Result{Target: target}
	in.hookStep(res, spec)
	return res, nil
}

// hookStep runs the hook phase of a wrap. Failures here never fail the wrap
// (the binary already works) but are surfaced as warnings because the wrap
// will not survive the next package transaction.
func (in *Installer) hookStep(res *Result, spec *wrap.Spec) {
	if spec.NoHooks {
		return
	}

	pkg, err := in.Owner(res.Target.OriginalPath)
	if err != nil {
		if errors.Is(err, wrap.ErrUnowned) {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s is not managed by pacman; the wrap will not survive a reinstall (see `wrapperize watch`)",
				res.Target.OriginalPath))
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"cannot determine owning package: %v; hooks skipped", err))
		}
		return
	}
	res.Package = pkg

	defs := in.Hooks.Definitions(res.Target.OriginalPath, pkg)
	if err := in.Hooks.WriteAll(defs); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"hook generation failed: %v; the wrap will not survive the next upgrade of %s", err, pkg))
		return
	}

	// Record the discovered owner in the sidecar so `list` can show it
	// without querying pacman again.
	spec.Package = pkg
	if err := spec.Save(in.Store.SpecPath(res.Target.OriginalPath)); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("recording owning package: %v", err))
	}
}

// restore moves the relocated original back to its path; best effort, with
// loud diagnostics when even that fails.
func (in *Installer) restore(relocated, originalPath string) {
	if err := fsutil.Move(relocated, originalPath); err != nil {
		fmt.Fprintf(in.Stderr, "rollback failed: %s could not be moved back to %s: %v\n",
			relocated, originalPath, err)
	}
}

// Unwrap removes the wrap for identifier: the original is renamed back over
// the wrapper (one atomic step, no empty window), then the sidecar and hook
// files go away.
func (in *Installer) Unwrap(identifier string) (*resolve.Target, error) {
	target, err := resolve.Resolve(identifier, in.Store)
	if err != nil {
		return nil, err
	}
	if !target.Wrapped {
		return nil, fmt.Errorf("%s: %w", target.OriginalPath, wrap.ErrNotWrapped)
	}

	if err := fsutil.Move(target.RelocatedPath, target.OriginalPath); err != nil {
		return nil, fmt.Errorf("restoring original to %s: %w", target.OriginalPath, err)
	}

	if err := os.Remove(in.Store.SpecPath(target.OriginalPath)); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(in.Stderr, "warning: removing wrap spec: %v\n", err)
	}
	if _, err := in.Hooks.RemoveAll(target.OriginalPath); err != nil {
		fmt.Fprintf(in.Stderr, "warning: %v\n", err)
	}
	return target, nil
}

// Apply rebuilds the wrapper for path from its persisted spec. This is the
// re-entry point the install/upgrade hook uses after pacman has replaced
// the wrapper with a fresh original; it also serves `wrapperize watch`.
func (in *Installer) Apply(path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}

	spec, err := wrap.Load(in.Store.SpecPath(abs))
	if err != nil {
		return nil, err
	}

	if _, wrapped, err := wrapper.Detect(abs); err == nil && !wrapped {
		// A fresh original sits at the target path, so any relocated copy
		// is the pre-transaction binary, superseded by the new file.
		relocated := in.Store.BinaryPath(abs)
		if err := os.Remove(relocated); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("discarding stale relocated copy %s: %w", relocated, err)
		}
	}

	return in.Wrap(abs, spec, true)
}

// Scrub removes every remaining trace of a wrap: wrapper (if still
// present), relocated original, spec sidecar, and hook files. The removal
// hook uses it after pacman has already deleted the target path itself.
// ErrNotWrapped when there was nothing to remove.
func (in *Installer) Scrub(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}

	removed := 0
	if _, wrapped, err := wrapper.Detect(abs); err == nil && wrapped {
		if err := os.Remove(abs); err != nil {
			return fmt.Errorf("removing wrapper %s: %w", abs, err)
		}
		removed++
	}

	for _, p := range []string{in.Store.BinaryPath(abs), in.Store.SpecPath(abs)} {
		err := os.Remove(p)
		if err == nil {
			removed++
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}

	n, err := in.Hooks.RemoveAll(abs)
	if err != nil {
		return err
	}
	removed += n

	if removed == 0 {
		return fmt.Errorf("%s: %w", abs, wrap.ErrNotWrapped)
	}
	return nil
}
