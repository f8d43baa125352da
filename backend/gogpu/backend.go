package gogpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/streambuf"
)

// BackendGoGPU is the name of the gogpu backend.
const BackendGoGPU = "gogpu"

// Backend owns GPU resources acquired through gogpu/gogpu and hands out
// a streambuf.Device over them.
//
// Backend is safe for concurrent use from multiple goroutines.
type Backend struct {
	mu sync.RWMutex

	gpuBackend gpu.Backend
	instance   types.Instance
	adapter    types.Adapter
	device     types.Device
	queue      types.Queue

	streamDev   *StreamDevice
	initialized bool
}

// NewBackend creates a new gogpu backend.
// The backend must be initialized with Init() before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return BackendGoGPU
}

// Init initializes the backend by creating GPU resources:
// the active gogpu backend (Rust or Pure Go), a WebGPU instance, an
// adapter, a logical device and its command queue.
//
// Returns an error if GPU initialization fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	gpuBackend := gpu.GetBackend()
	if gpuBackend == nil {
		// Try to initialize default backend
		if err := gpu.InitDefaultBackend(); err != nil {
			return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
		}
		gpuBackend = gpu.GetBackend()
	}
	if gpuBackend == nil {
		return ErrNoGPUBackend
	}
	b.gpuBackend = gpuBackend

	instance, err := gpuBackend.CreateInstance()
	if err != nil {
		return fmt.Errorf("gogpu: instance creation failed: %w", err)
	}
	b.instance = instance

	adapter, err := gpuBackend.RequestAdapter(instance, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
	}
	b.adapter = adapter

	device, err := gpuBackend.RequestDevice(adapter, &types.DeviceOptions{
		Label: "streambuf-gogpu-device",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}
	b.device = device

	b.queue = gpuBackend.GetQueue(device)
	b.streamDev = NewStreamDevice(gpuBackend, b.device, b.queue)
	b.initialized = true

	streambuf.Logger().Info("gogpu: backend initialized",
		"gpu", gpuBackend.Name())

	return nil
}

// Device returns the streambuf device. Returns nil before Init or after
// Close.
func (b *Backend) Device() streambuf.Device {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil
	}
	return b.streamDev
}

// Close releases all backend resources.
// The backend should not be used after Close is called.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	if b.streamDev != nil {
		b.streamDev.release()
		b.streamDev = nil
	}

	// Remaining handles are managed by the gogpu backend and released
	// with it.
	b.device = 0
	b.adapter = 0
	b.instance = 0
	b.queue = 0
	b.gpuBackend = nil
	b.initialized = false

	streambuf.Logger().Debug("gogpu: backend closed")
}
