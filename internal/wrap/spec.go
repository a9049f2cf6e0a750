// Package wrap defines the wrap specification shared by every other
// component: which target to wrap, which arguments and environment
// variables to inject, and the sentinel error taxonomy.
//
// A Spec is persisted as a TOML sidecar under the state root so that a hook
// firing days later, in a fresh process, can rebuild the wrapper without any
// other record. The filesystem is the only durable state this tool keeps.
package wrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Variable is one environment variable to inject into the wrapped program.
type Variable struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`

	// Append marks a list-valued variable (PATH-style). Instead of
	// replacing the inherited value, the injected value is prepended to it,
	// colon-separated, so the injection still wins on lookup order.
	Append bool `toml:"append,omitempty"`
}

// Spec captures the user's intent for a single wrapped target. Immutable
// once constructed; consumed once per install operation.
type Spec struct {
	Target     string     `toml:"target"`
	ArgsBefore []string   `toml:"args_before,omitempty"`
	ArgsAfter  []string   `toml:"args_after,omitempty"`
	Env        []Variable `toml:"env,omitempty"`

	// NoHooks skips pacman hook generation, for binaries pacman does not
	// manage (e.g. under /home or /usr/local).
	NoHooks bool `toml:"no_hooks,omitempty"`

	// Package is the owning package discovered when hooks were generated.
	// Informational; re-discovered on every wrap.
	Package string `toml:"package,omitempty"`
}

// Empty reports whether the spec injects nothing at all.
func (s *Spec) Empty() bool {
	return len(s.ArgsBefore) == 0 && len(s.ArgsAfter) == 0 && len(s.Env) == 0
}

// Save writes the spec to path as TOML, creating parent directories.
func (s *Spec) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating spec directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding wrap spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing wrap spec: %w", err)
	}
	return nil
}

// Load reads a spec previously written by Save. A missing file maps to
// ErrNotWrapped: no sidecar means the target has no recorded wrap.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no wrap spec at %s: %w", path, ErrNotWrapped)
	}
	if err != nil {
		return nil, fmt.Errorf("reading wrap spec %s: %w", path, err)
	}
	var s Spec
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing wrap spec %s: %w", path, err)
	}
	return &s, nil
}

// ParseVariable parses a NAME=value flag argument.
func ParseVariable(s string, appendPolicy bool) (Variable, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return Variable{}, fmt.Errorf("invalid environment variable %q: missing '=' separator", s)
	}
	if !ValidName(name) {
		return Variable{}, fmt.Errorf("invalid environment variable name %q", name)
	}
	return Variable{Name: name, Value: value, Append: appendPolicy}, nil
}

// ValidName reports whether name is a portable environment variable name:
// non-empty, underscores and alphanumerics only, no leading digit.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch == '_':
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
