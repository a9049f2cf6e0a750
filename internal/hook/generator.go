// Package hook generates pacman hook definition files that keep a wrap
// alive across package transactions.
//
// Two hooks exist per wrapped target. The install/upgrade hook fires after
// pacman replaces the target file with a fresh original and re-invokes this
// tool (`wrapperize apply`) to rebuild the wrapper from the persisted spec.
// The removal hook fires when the owning package is uninstalled and runs
// `wrapperize scrub`, which deletes the relocated original, the spec
// sidecar, and both hook files; pacman only knows about the original path,
// so everything else would otherwise be orphaned.
//
// Hook identity is keyed by the full target path, so regenerating hooks for
// the same target overwrites instead of duplicating, and same-named
// binaries in different directories never collide.
package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathanlmc/wrapperize/internal/relocate"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

// DefaultDir is pacman's drop-in hook directory.
const DefaultDir = "/etc/pacman.d/hooks"

// Generator emits hook definitions into a pacman hook directory.
type Generator struct {
	// Dir is the hook directory hooks are written to.
	Dir string

	// Exe is the absolute path of this tool, used on Exec lines.
	Exe string

	// StateDir is the state root the hook actions should operate on; a
	// --state-dir flag is added to Exec lines when it is not the default.
	StateDir string
}

// New returns a Generator writing to dir (DefaultDir when empty) with hook
// actions re-invoking exe.
func New(dir, exe, stateDir string) *Generator {
	if dir == "" {
		dir = DefaultDir
	}
	return &Generator{Dir: dir, Exe: exe, StateDir: stateDir}
}

// Definition is one hook file ready to be written.
type Definition struct {
	Path    string
	Package string
	Content string
}

// Install returns the hook that re-wraps target after the owning package is
// installed or upgraded.
func (g *Generator) Install(target, pkg string) Definition {
	return Definition{
		Path:    filepath.Join(g.Dir, fileName(target, "install")),
		Package: pkg,
		Content: g.render(target,
			"Operation = Install\nOperation = Upgrade",
			fmt.Sprintf("Re-wrapping %s...", filepath.Base(target)),
			"apply"),
	}
}

// Removal returns the hook that cleans up every trace of the wrap when the
// owning package is removed.
func (g *Generator) Removal(target, pkg string) Definition {
	return Definition{
		Path:    filepath.Join(g.Dir, fileName(target, "remove")),
		Package: pkg,
		Content: g.render(target,
			"Operation = Remove",
			fmt.Sprintf("Removing traces of wrapper for %s...", filepath.Base(target)),
			"scrub"),
	}
}

// Definitions returns both hooks for a target.
func (g *Generator) Definitions(target, pkg string) []Definition {
	return []Definition{g.Install(target, pkg), g.Removal(target, pkg)}
}

// Paths returns the hook file paths for a target, whether or not they exist.
func (g *Generator) Paths(target string) []string {
	return []string{
		filepath.Join(g.Dir, fileName(target, "install")),
		filepath.Join(g.Dir, fileName(target, "remove")),
	}
}

// WriteAll writes the definitions, creating the hook directory if needed.
// Existing hook files for the same target are overwritten.
func (g *Generator) WriteAll(defs []Definition) error {
	if err := os.MkdirAll(g.Dir, 0755); err != nil {
		return fmt.Errorf("creating hook directory %s: %w: %v", g.Dir, wrap.ErrWrite, err)
	}
	for _, def := range defs {
		if err := os.WriteFile(def.Path, []byte(def.Content), 0644); err != nil {
			return fmt.Errorf("%s: %w: %v", def.Path, wrap.ErrWrite, err)
		}
	}
	return nil
}

// RemoveAll deletes both hook files for a target, returning how many
// existed.
func (g *Generator) RemoveAll(target string) (int, error) {
	removed := 0
	for _, path := range g.Paths(target) {
		err := os.Remove(path)
		if err == nil {
			removed++
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing hook %s: %w", path, err)
		}
	}
	return removed, nil
}

// render produces a pacman .hook body. The File trigger watches the target
// path itself, so the hook fires exactly when pacman touches that file.
func (g *Generator) render(target, operations, description, action string) string {
	exec := g.Exe
	if g.StateDir != "" && g.StateDir != relocate.DefaultRoot {
		exec += " --state-dir " + g.StateDir
	}
	if g.Dir != DefaultDir {
		exec += " --hook-dir " + g.Dir
	}
	exec += " " + action + " " + target

	return fmt.Sprintf(`[Trigger]
Type = File
%s
Target = %s

[Action]
Description = %s
When = PostTransaction
Exec = %s
`, operations, strings.TrimPrefix(target, "/"), description, exec)
}

// fileName builds the hook file name for a target: the full path flattened
// so identity is the target path, not just its basename.
func fileName(target, action string) string {
	flat := strings.ReplaceAll(strings.Trim(filepath.Clean(target), "/"), "/", "-")
	return flat + "-wrapperize-" + action + ".hook"
}
