// Package gogpu provides a stream buffer backend using the gogpu/gogpu
// framework.
//
// This backend uses gogpu's gpu.Backend interface, which supports both
// Rust (wgpu-native) and Pure Go (gogpu/wgpu) implementations. Users can
// select the underlying GPU backend by importing the appropriate package:
//
//	import _ "github.com/gogpu/gogpu/gpu/backend/rust"   // Rust backend
//	import _ "github.com/gogpu/gogpu/gpu/backend/native" // Pure Go backend
//
// The gpu.Backend interface exposes no persistent buffer mapping, so the
// device reports map-per-write: every reservation gets a transient host
// staging slice whose written range is uploaded on flush.
package gogpu

import "errors"

// Package errors for gogpu backend.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("gogpu: backend not initialized")

	// ErrNoGPUBackend is returned when no GPU backend is available.
	ErrNoGPUBackend = errors.New("gogpu: no GPU backend available")

	// ErrDeviceCreationFailed is returned when GPU device creation fails.
	ErrDeviceCreationFailed = errors.New("gogpu: device creation failed")

	// ErrUnknownBuffer is returned when a handle does not name a live buffer.
	ErrUnknownBuffer = errors.New("gogpu: unknown buffer handle")

	// ErrOutOfRange is returned when a mapping request exceeds the buffer.
	ErrOutOfRange = errors.New("gogpu: mapping range out of bounds")
)
