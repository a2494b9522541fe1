package drain

import "errors"

// Snapshot load failures. Both leave the engine's current state
// untouched; callers decide whether to start empty or retry the fetch.
var (
	// ErrCorruptState indicates snapshot bytes that do not decode into a
	// consistent engine state.
	ErrCorruptState = errors.New("corrupt snapshot state")

	// ErrVersionMismatch indicates a snapshot written by an incompatible
	// format version.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)
