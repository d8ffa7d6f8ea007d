package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a row or file was not found; engines downgrade
	// this to a no-op because it is the normal outcome of re-running an
	// idempotent pass
	ErrNotFound = errors.New("not found")

	// ErrUnsupported indicates an unsupported payload or operation
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
