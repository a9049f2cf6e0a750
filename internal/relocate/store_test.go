package relocate

import (
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

func TestBinaryPathRoundTrip(t *testing.T) {
	store := New("/var/lib/wrapperize")

	originals := []string{
		"/usr/bin/foo",
		"/usr/local/bin/some-tool",
		"/opt/app/bin/app.real",
		"/usr/bin/name with spaces",
	}
	for _, original := range originals {
		relocated := store.BinaryPath(original)
		back, err := store.OriginalPath(relocated)
		if err != nil {
			t.Fatalf("OriginalPath(%q) error: %v", relocated, err)
		}
		if back != original {
			t.Errorf("round trip of %q = %q via %q", original, back, relocated)
		}
	}
}

func TestBinaryPathIsReservedDirectory(t *testing.T) {
	store := New("/var/lib/wrapperize")
	got := store.BinaryPath("/usr/bin/foo")
	want := "/var/lib/wrapperize/bin/usr/bin/foo"
	if got != want {
		t.Errorf("BinaryPath() = %q, want %q", got, want)
	}
}

func TestOriginalPathRejectsForeignPaths(t *testing.T) {
	store := New("/var/lib/wrapperize")
	for _, p := range []string{"/usr/bin/foo", "/var/lib/wrapperize/specs/usr/bin/foo.toml", "/var/lib/wrapperize/bin"} {
		if _, err := store.OriginalPath(p); err == nil {
			t.Errorf("OriginalPath(%q): want error", p)
		}
	}
}

func TestSpecPath(t *testing.T) {
	store := New("/var/lib/wrapperize")
	got := store.SpecPath("/usr/bin/foo")
	want := "/var/lib/wrapperize/specs/usr/bin/foo.toml"
	if got != want {
		t.Errorf("SpecPath() = %q, want %q", got, want)
	}
}

func TestClaim(t *testing.T) {
	store := New(t.TempDir())

	relocated, err := store.Claim("/usr/bin/foo")
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if relocated != store.BinaryPath("/usr/bin/foo") {
		t.Errorf("Claim() = %q, want %q", relocated, store.BinaryPath("/usr/bin/foo"))
	}

	// Occupy the relocated path and claim again.
	if err := os.WriteFile(relocated, []byte("leftover"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Claim("/usr/bin/foo"); !errors.Is(err, wrap.ErrConflict) {
		t.Errorf("Claim() on occupied path: got %v, want ErrConflict", err)
	}
}

func TestTargets(t *testing.T) {
	store := New(t.TempDir())

	// Empty state root: no targets, no error.
	targets, err := store.Targets()
	if err != nil {
		t.Fatalf("Targets() error: %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("Targets() = %v, want empty", targets)
	}

	for _, target := range []string{"/usr/bin/foo", "/usr/local/bin/bar"} {
		spec := &wrap.Spec{Target: target, ArgsBefore: []string{"-x"}}
		if err := spec.Save(store.SpecPath(target)); err != nil {
			t.Fatal(err)
		}
	}

	targets, err = store.Targets()
	if err != nil {
		t.Fatalf("Targets() error: %v", err)
	}
	sort.Strings(targets)
	want := []string{"/usr/bin/foo", "/usr/local/bin/bar"}
	if len(targets) != len(want) {
		t.Fatalf("Targets() = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("Targets()[%d] = %q, want %q", i, targets[i], want[i])
		}
	}

	// Each target's spec must be loadable via SpecPath.
	for _, target := range targets {
		if _, err := wrap.Load(store.SpecPath(target)); err != nil {
			t.Errorf("Load(SpecPath(%q)) error: %v", target, err)
		}
	}
}
