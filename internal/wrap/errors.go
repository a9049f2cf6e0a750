package wrap

import "errors"

// Error taxonomy for wrap operations. Callers classify failures with
// errors.Is; the operation that failed adds path and step context by
// wrapping these with fmt.Errorf and %w.
var (
	// ErrNotFound means the target could not be resolved to an executable.
	ErrNotFound = errors.New("target not found")

	// ErrAlreadyWrapped means the target is already a wrapper and no update
	// was requested.
	ErrAlreadyWrapped = errors.New("target is already wrapped")

	// ErrNotWrapped means the requested operation needs an existing wrap.
	ErrNotWrapped = errors.New("target is not wrapped")

	// ErrConflict means the relocated path is already occupied, usually the
	// residue of a prior partial install.
	ErrConflict = errors.New("relocated path already occupied")

	// ErrWrite means a wrapper or hook file could not be written.
	ErrWrite = errors.New("write failed")

	// ErrUnowned means no installed package owns the target file, so pacman
	// hooks cannot keep the wrap alive.
	ErrUnowned = errors.New("file is not owned by any package")
)
