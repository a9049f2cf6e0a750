package watcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathanlmc/wrapperize/internal/hook"
	"github.com/jonathanlmc/wrapperize/internal/install"
	"github.com/jonathanlmc/wrapperize/internal/relocate"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
	"github.com/jonathanlmc/wrapperize/internal/wrapper"
)

func newWrappedTarget(t *testing.T) (*Watcher, string) {
	t.Helper()
	store := relocate.New(t.TempDir())
	inst := install.New(store, hook.New(filepath.Join(t.TempDir(), "hooks"), "/usr/local/bin/wrapperize", ""))
	inst.Stderr = io.Discard
	inst.Owner = func(path string) (string, error) {
		return "", fmt.Errorf("%s: %w", path, wrap.ErrUnowned)
	}

	bin := filepath.Join(t.TempDir(), "foo")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho real\n"), 0755); err != nil {
		t.Fatal(err)
	}
	spec := &wrap.Spec{Target: bin, ArgsBefore: []string{"-v"}, NoHooks: true}
	if _, err := inst.Wrap(bin, spec, false); err != nil {
		t.Fatal(err)
	}

	w := New(store, inst)
	w.logw = io.Discard
	return w, bin
}

func TestRepairRewrapsReplacedTarget(t *testing.T) {
	w, bin := newWrappedTarget(t)

	// Something replaced the wrapper with a fresh binary.
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho upgraded\n"), 0755); err != nil {
		t.Fatal(err)
	}

	w.repair(bin)

	if _, wrapped, _ := wrapper.Detect(bin); !wrapped {
		t.Error("target not re-wrapped after repair")
	}
}

func TestRepairLeavesIntactWrapperAlone(t *testing.T) {
	w, bin := newWrappedTarget(t)
	before, _ := os.ReadFile(bin)

	w.repair(bin)

	after, _ := os.ReadFile(bin)
	if string(before) != string(after) {
		t.Error("repair rewrote an intact wrapper")
	}
}

func TestRepairIgnoresDeletedTarget(t *testing.T) {
	w, bin := newWrappedTarget(t)
	if err := os.Remove(bin); err != nil {
		t.Fatal(err)
	}

	w.repair(bin)

	if _, err := os.Stat(bin); !os.IsNotExist(err) {
		t.Error("repair resurrected a deleted target")
	}
}

func TestFlushRepairsDirtyTargets(t *testing.T) {
	w, bin := newWrappedTarget(t)

	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho upgraded\n"), 0755); err != nil {
		t.Fatal(err)
	}
	w.mu.Lock()
	w.dirty[bin] = true
	w.mu.Unlock()

	w.flush()

	if _, wrapped, _ := wrapper.Detect(bin); !wrapped {
		t.Error("flush did not repair dirty target")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.dirty) != 0 {
		t.Error("dirty set not cleared after flush")
	}
}

func TestStartStop(t *testing.T) {
	w, _ := newWrappedTarget(t)

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	w.Stop()
}

func TestStartWithNothingToWatch(t *testing.T) {
	store := relocate.New(t.TempDir())
	inst := install.New(store, hook.New(filepath.Join(t.TempDir(), "hooks"), "/usr/local/bin/wrapperize", ""))
	w := New(store, inst)
	w.logw = io.Discard

	if err := w.Start(); err == nil {
		t.Error("Start() with empty state: want error")
	}
}
