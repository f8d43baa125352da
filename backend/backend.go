package backend

import (
	"errors"

	"github.com/gogpu/streambuf"
)

// Backend names.
const (
	// BackendWGPU is the Vulkan-class HAL backend via gogpu/wgpu.
	BackendWGPU = "wgpu"

	// BackendGoGPU is the portable backend via gogpu/gogpu.
	BackendGoGPU = "gogpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// StreamBackend owns a GPU device suitable for stream buffer allocation.
// It abstracts the graphics API, allowing the allocator to run on
// different stacks (wgpu HAL, gogpu, mocks in tests).
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type StreamBackend interface {
	// Name returns the backend identifier (e.g., "wgpu", "gogpu").
	Name() string

	// Init acquires the GPU instance, adapter and device.
	// This must be called before Device.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the device for stream buffer creation.
	// Returns nil before Init or after Close.
	Device() streambuf.Device
}
