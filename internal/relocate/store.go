// Package relocate owns the naming convention for where an original binary
// lives once wrapped.
//
// The convention is a mirror tree under a reserved state root: the original
// at /usr/bin/foo relocates to <root>/bin/usr/bin/foo, and its wrap spec
// sidecar lives at <root>/specs/usr/bin/foo.toml. Both derivations are pure
// functions of the original path, so every invocation (including a pacman
// hook firing days later) recomputes the same locations with no stored
// mapping. The reserved root keeps relocated files out of any directory the
// package manager writes to.
package relocate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

// DefaultRoot is the default state directory.
const DefaultRoot = "/var/lib/wrapperize"

// Store derives relocated and sidecar paths under a single state root.
type Store struct {
	root string
}

// New returns a Store rooted at root. Empty root means DefaultRoot.
func New(root string) *Store {
	if root == "" {
		root = DefaultRoot
	}
	return &Store{root: filepath.Clean(root)}
}

// Root returns the state root directory.
func (s *Store) Root() string { return s.root }

// LockPath returns the advisory lock file used to serialize invocations.
func (s *Store) LockPath() string { return filepath.Join(s.root, ".lock") }

// BinaryPath returns the relocated location for an original binary path.
func (s *Store) BinaryPath(original string) string {
	return filepath.Join(s.root, "bin", strings.TrimPrefix(filepath.Clean(original), "/"))
}

// OriginalPath inverts BinaryPath.
func (s *Store) OriginalPath(relocated string) (string, error) {
	rel, err := filepath.Rel(filepath.Join(s.root, "bin"), filepath.Clean(relocated))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is not under the relocation root %s", relocated, s.root)
	}
	return "/" + rel, nil
}

// SpecPath returns the sidecar location for a target's persisted wrap spec.
func (s *Store) SpecPath(original string) string {
	return filepath.Join(s.root, "specs", strings.TrimPrefix(filepath.Clean(original), "/")) + ".toml"
}

// Claim verifies the relocated path for original is free and creates its
// parent directories, returning the relocated path. An occupied path means a
// prior install never finished (or never got cleaned up) and needs explicit
// attention, so it fails with ErrConflict rather than clobbering.
func (s *Store) Claim(original string) (string, error) {
	relocated := s.BinaryPath(original)
	if err := os.MkdirAll(filepath.Dir(relocated), 0755); err != nil {
		return "", fmt.Errorf("creating relocation directory: %w", err)
	}
	if _, err := os.Lstat(relocated); err == nil {
		return "", fmt.Errorf("%s: %w (unwrap or remove it, then retry)", relocated, wrap.ErrConflict)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking relocated path %s: %w", relocated, err)
	}
	return relocated, nil
}

// Targets reconstructs the list of wrapped original paths by walking the
// sidecar spec tree. The filesystem is the only record there is.
func (s *Store) Targets() ([]string, error) {
	specsRoot := filepath.Join(s.root, "specs")
	var targets []string
	err := filepath.WalkDir(specsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == specsRoot {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		rel, err := filepath.Rel(specsRoot, path)
		if err != nil {
			return err
		}
		targets = append(targets, "/"+strings.TrimSuffix(rel, ".toml"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking spec tree: %w", err)
	}
	return targets, nil
}
