package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/jonathanlmc/wrapperize/internal/hook"
	"github.com/jonathanlmc/wrapperize/internal/install"
	"github.com/jonathanlmc/wrapperize/internal/relocate"
)

const lockTimeout = 10 * time.Second

func newStore() *relocate.Store {
	return relocate.New(stateDir)
}

func newInstaller() (*install.Installer, error) {
	store := newStore()
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating own executable for hook actions: %w", err)
	}
	return install.New(store, hook.New(hookDir, exe, store.Root())), nil
}

// acquireLock serializes mutating invocations on the state root. Concurrent
// wraps of the same target are otherwise uncoordinated, so the CLI takes a
// single advisory lock for the duration of any mutation.
func acquireLock(store *relocate.Store) (*flock.Flock, error) {
	if err := os.MkdirAll(store.Root(), 0755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	lock := flock.New(store.LockPath())
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("timed out waiting for another wrapperize invocation to finish")
	}
	return lock, nil
}
