package core

import "errors"

// Error taxonomy shared by the store, registries, and automation engine.
// All of these are recoverable by the caller; none is fatal.
var (
	// ErrNotFound indicates that an operation referenced a missing or
	// purged id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates a lifecycle violation, such as restoring
	// an item that was never deleted or purging one that still is live.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates a duplicate hotkey binding.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed input, such as an empty required
	// name or an unknown enum value.
	ErrValidation = errors.New("validation failed")
)
