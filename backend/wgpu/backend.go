package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"
	gputypes "github.com/gogpu/wgpu/types"

	"github.com/gogpu/streambuf"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Backend drives the gogpu/wgpu HAL directly. It owns the instance,
// device and queue, and hands out a streambuf.Device over them.
//
// Backend is safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	streamDev   *StreamDevice
	initialized bool
}

// New creates an uninitialized wgpu backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "wgpu" }

// Init acquires the Vulkan HAL instance, picks a GPU adapter (discrete
// preferred, then integrated, then whatever is exposed) and opens the
// device and queue.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return ErrBackendUnavailable
	}

	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}

	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.streamDev = NewStreamDevice(b.device, b.queue)
	b.initialized = true

	streambuf.Logger().Info("wgpu: backend initialized",
		"adapter", selected.Info.Name, "type", selected.Info.DeviceType)

	return nil
}

// Device returns the streambuf device. Returns nil before Init or after
// Close.
func (b *Backend) Device() streambuf.Device {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}
	return b.streamDev
}

// Close releases remaining buffers, the device and the instance. The
// backend should not be used after Close.
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
	if b.device != nil {
		b.device.Destroy()
		b.device = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
	b.queue = nil
	b.initialized = false
}
