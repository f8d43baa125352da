package gogpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/streambuf"
)

// writeBackend is the subset of gpu.Backend the stream device needs.
type writeBackend interface {
	CreateBuffer(device types.Device, desc *types.BufferDescriptor) (types.Buffer, error)
	ReleaseBuffer(buffer types.Buffer)
	WriteBuffer(queue types.Queue, buffer types.Buffer, offset uint64, data []byte)
}

// gpuBuffer tracks a gogpu buffer and its transient staging slice.
// The staging slice exists only between MapRange and Unmap.
type gpuBuffer struct {
	raw  types.Buffer
	size uint64

	staging       []byte
	stagingOffset uint64
}

// StreamDevice implements streambuf.Device over a gogpu device and
// queue. The gpu.Backend interface exposes no buffer mapping at all, so
// MapRange hands out a transient host staging slice; FlushRange uploads
// the written range through the queue and Unmap discards the staging.
// The device therefore reports map-per-write capabilities.
//
// StreamDevice is safe for concurrent use from multiple goroutines. The
// stream buffers built on it remain single-threaded.
type StreamDevice struct {
	mu      sync.RWMutex
	backend writeBackend
	device  types.Device
	queue   types.Queue

	nextID  atomic.Uint64
	buffers map[streambuf.BufferHandle]*gpuBuffer
}

var _ streambuf.Device = (*StreamDevice)(nil)

// NewStreamDevice wraps a gogpu backend, device and queue.
func NewStreamDevice(backend writeBackend, device types.Device, queue types.Queue) *StreamDevice {
	d := &StreamDevice{
		backend: backend,
		device:  device,
		queue:   queue,
		buffers: make(map[streambuf.BufferHandle]*gpuBuffer),
	}

	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)

	return d
}

// Capabilities reports map-per-write: no persistent mapping, writes
// reach the GPU through explicit flushes.
func (d *StreamDevice) Capabilities() streambuf.Capabilities {
	return streambuf.Capabilities{}
}

// CreateBuffer creates a gogpu buffer.
func (d *StreamDevice) CreateBuffer(desc *streambuf.BufferDesc) (streambuf.BufferHandle, error) {
	raw, err := d.backend.CreateBuffer(d.device, &types.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertTargetUsage(desc.Target),
	})
	if err != nil {
		return streambuf.InvalidHandle, fmt.Errorf("gogpu: create buffer: %w", err)
	}

	h := streambuf.BufferHandle(d.nextID.Add(1) - 1)

	d.mu.Lock()
	d.buffers[h] = &gpuBuffer{raw: raw, size: desc.Size}
	d.mu.Unlock()

	return h, nil
}

// DestroyBuffer releases a gogpu buffer. Unknown handles are ignored.
func (d *StreamDevice) DestroyBuffer(h streambuf.BufferHandle) {
	d.mu.Lock()
	buf, ok := d.buffers[h]
	if ok {
		delete(d.buffers, h)
	}
	d.mu.Unlock()

	if ok {
		d.backend.ReleaseBuffer(buf.raw)
	}
}

// MapRange allocates a staging slice covering [offset, offset+length).
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

	buf.staging = make([]byte, length)
	buf.stagingOffset = offset
	return buf.staging, nil
}

// FlushRange uploads the written staging range to the buffer. Offsets
// are absolute buffer offsets and must fall inside the staged window.
func (d *StreamDevice) FlushRange(h streambuf.BufferHandle, offset, length uint64) {
	if length == 0 {
		return
	}

	d.mu.RLock()
	buf, ok := d.buffers[h]
	d.mu.RUnlock()

	if !ok || buf.staging == nil {
		streambuf.Logger().Warn("gogpu: flush without mapping dropped", "handle", h)
		return
	}

	rel := offset - buf.stagingOffset
	if offset < buf.stagingOffset || rel+length > uint64(len(buf.staging)) {
		streambuf.Logger().Warn("gogpu: flush of invalid range dropped",
			"handle", h, "offset", offset, "length", length)
		return
	}

	d.backend.WriteBuffer(d.queue, buf.raw, offset, buf.staging[rel:rel+length])
}

// Unmap discards the staging slice.
func (d *StreamDevice) Unmap(h streambuf.BufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if buf, ok := d.buffers[h]; ok {
		buf.staging = nil
		buf.stagingOffset = 0
	}
}

// release destroys all remaining buffers. Called by Backend.Close.
func (d *StreamDevice) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h, buf := range d.buffers {
		d.backend.ReleaseBuffer(buf.raw)
		delete(d.buffers, h)
	}
}

// convertTargetUsage converts a streambuf.Target to gogpu buffer usage.
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
