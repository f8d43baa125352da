package wgpu

import "errors"

// Backend errors.
var (
	// ErrBackendUnavailable is returned when no HAL backend is compiled in.
	ErrBackendUnavailable = errors.New("wgpu: hal backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrNotInitialized is returned when operating before Init.
	ErrNotInitialized = errors.New("wgpu: backend not initialized")

	// ErrUnknownBuffer is returned when a handle does not name a live buffer.
	ErrUnknownBuffer = errors.New("wgpu: unknown buffer handle")

	// ErrOutOfRange is returned when a mapping request exceeds the buffer.
	ErrOutOfRange = errors.New("wgpu: mapping range out of bounds")
)
