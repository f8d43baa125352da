package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/types"

	"github.com/gogpu/streambuf"
)

// halDevice is the subset of hal.Device the stream device needs.
type halDevice interface {
	CreateBuffer(*hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(hal.Buffer)
}

// halQueue is the subset of hal.Queue the stream device needs.
type halQueue interface {
	WriteBuffer(buf hal.Buffer, offset uint64, data []byte)
}

// hostBuffer pairs a HAL buffer with its retained host shadow. The
// shadow is what MapRange exposes; FlushRange uploads written ranges to
// the device through the queue.
type hostBuffer struct {
	raw    hal.Buffer
	size   uint64
	shadow []byte
	mapped bool
}

// StreamDevice implements streambuf.Device over a HAL device and queue.
// Mappings never touch device memory directly: each buffer keeps a host
// shadow that stays valid indefinitely, so the device reports persistent
// non-coherent support and the allocator flushes exactly the written
// ranges.
//
// StreamDevice is safe for concurrent use. The stream buffers built on
// it remain single-threaded.
type StreamDevice struct {
	mu     sync.RWMutex
	device halDevice
	queue  halQueue

	nextID  atomic.Uint64
	buffers map[streambuf.BufferHandle]*hostBuffer
}

var _ streambuf.Device = (*StreamDevice)(nil)

// NewStreamDevice wraps an open HAL device and queue.
func NewStreamDevice(device halDevice, queue halQueue) *StreamDevice {
	d := &StreamDevice{
		device:  device,
		queue:   queue,
		buffers: make(map[streambuf.BufferHandle]*hostBuffer),
	}

	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)

	return d
}

// Capabilities reports persistent non-coherent mapping: the host shadow
// survives across writes, but written ranges reach the GPU only on flush.
func (d *StreamDevice) Capabilities() streambuf.Capabilities {
	return streambuf.Capabilities{
		PersistentMapping: true,
		CoherentMapping:   false,
	}
}

// CreateBuffer allocates a HAL buffer and its host shadow.
func (d *StreamDevice) CreateBuffer(desc *streambuf.BufferDesc) (streambuf.BufferHandle, error) {
	usage := convertTargetUsage(desc.Target)
	if desc.Streaming {
		usage |= types.BufferUsageMapWrite
	}

	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: usage,
	})
	if err != nil {
		return streambuf.InvalidHandle, fmt.Errorf("wgpu: create buffer: %w", err)
	}

	h := streambuf.BufferHandle(d.nextID.Add(1) - 1)

	d.mu.Lock()
	d.buffers[h] = &hostBuffer{
		raw:    raw,
		size:   desc.Size,
		shadow: make([]byte, desc.Size),
	}
	d.mu.Unlock()

	return h, nil
}

// DestroyBuffer releases the HAL buffer and drops the shadow. Unknown
// handles are ignored.
func (d *StreamDevice) DestroyBuffer(h streambuf.BufferHandle) {
	d.mu.Lock()
	buf, ok := d.buffers[h]
	if ok {
		delete(d.buffers, h)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(buf.raw)
	}
}

// MapRange exposes [offset, offset+length) of the host shadow.
func (d *StreamDevice) MapRange(h streambuf.BufferHandle, offset, length uint64, _ streambuf.MapFlags) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, ok := d.buffers[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuffer, h)
	}
	if offset+length > buf.size {
		return nil, fmt.Errorf("%w: [%d, +%d) of %d", ErrOutOfRange, offset, length, buf.size)
	}

	buf.mapped = true
	return buf.shadow[offset : offset+length], nil
}

// FlushRange uploads the written shadow range to the device.
func (d *StreamDevice) FlushRange(h streambuf.BufferHandle, offset, length uint64) {
	if length == 0 {
		return
	}

	d.mu.RLock()
	buf, ok := d.buffers[h]
	d.mu.RUnlock()

	if !ok || offset+length > buf.size {
		streambuf.Logger().Warn("wgpu: flush of invalid range dropped",
			"handle", h, "offset", offset, "length", length)
		return
	}

	d.queue.WriteBuffer(buf.raw, offset, buf.shadow[offset:offset+length])
}

// Unmap ends the mapping. The shadow is retained, so this only clears
// the mapped mark.
func (d *StreamDevice) Unmap(h streambuf.BufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if buf, ok := d.buffers[h]; ok {
		buf.mapped = false
	}
}

// release destroys all remaining buffers. Called by Backend.Close.
func (d *StreamDevice) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h, buf := range d.buffers {
		d.device.DestroyBuffer(buf.raw)
		delete(d.buffers, h)
	}
}

// convertTargetUsage converts a streambuf.Target to HAL buffer usage.
// Every stream buffer is a copy destination for the flush uploads.
func convertTargetUsage(target streambuf.Target) types.BufferUsage {
	usage := types.BufferUsageCopyDst
	switch target {
	case streambuf.TargetVertex:
		usage |= types.BufferUsageVertex
	case streambuf.TargetIndex:
		usage |= types.BufferUsageIndex
	case streambuf.TargetUniform:
		usage |= types.BufferUsageUniform
	case streambuf.TargetStorage:
		usage |= types.BufferUsageStorage
	case streambuf.TargetIndirect:
		usage |= types.BufferUsageIndirect
	}
	return usage
}
