package streambuf

import (
	"fmt"
)

// Config describes a stream buffer to create.
type Config struct {
	// Label is an optional debug name passed through to the backend.
	Label string

	// Target is the binding point the buffer will feed.
	Target Target

	// Size is the logical capacity in bytes available for ring allocation.
	// Required.
	Size uint64

	// PreferCoherent requests a coherent persistent mapping. Honored only
	// when the device reports both persistent and coherent support.
	PreferCoherent bool

	// AllocationSize is the size of the backing allocation. Defaults to
	// Size. Some drivers benefit from slack beyond the logical capacity;
	// callers wanting that set AllocationSize explicitly. All cursor and
	// wraparound arithmetic uses Size regardless.
	AllocationSize uint64
}

// StreamBuffer streams transient per-frame data (vertex, index, uniform)
// into a fixed-capacity GPU buffer, reused cyclically. It minimizes
// CPU-GPU stalls by keeping the buffer persistently mapped where the
// driver allows it and by passing invalidate/unsynchronized hints to the
// driver instead of ever waiting on the GPU itself.
//
// Usage per reservation:
//
//	data, offset, wrapped := sb.Map(n, align)
//	copy(data, payload)
//	sb.Unmap(n)
//	// offset is now safe to reference from GPU commands.
//
// A Map must be completed by exactly one Unmap before the next Map. The
// returned slice is valid only until that Unmap. When wrapped is true the
// cursor returned to offset 0 and previously written regions are being
// reused; the caller is responsible for ensuring the GPU has consumed any
// commands still referencing them.
//
// StreamBuffer is not safe for concurrent use. Drive it from the thread
// that records GPU commands; Map and Unmap never block on the GPU.
type StreamBuffer struct {
	dev    Device
	handle BufferHandle
	target Target
	size   uint64
	mode   MapMode

	// Ring cursor state.
	pos      uint64 // next writable byte offset
	reserved uint64 // pending reservation from the open Map, 0 when none

	// Active mapping window. mapped covers [mappedOffset, mappedOffset+len).
	mapped       []byte
	mappedOffset uint64

	// Counters surfaced via Stats.
	mapCalls uint64
	remaps   uint64
	wraps    uint64
	flushes  uint64
	streamed uint64

	closed bool
}

// New creates a stream buffer on dev. The mapping strategy is fixed here
// from the device capabilities and cfg.PreferCoherent: with persistent
// support the whole logical range is mapped once and kept; without it the
// buffer is created with a streaming hint and mapped per write.
//
// Resource acquisition failure is fatal for the allocator: New returns an
// error and no degraded mode exists.
func New(dev Device, cfg Config) (*StreamBuffer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if cfg.Size == 0 {
		return nil, fmt.Errorf("%w: size is 0", ErrInvalidSize)
	}
	alloc := cfg.AllocationSize
	if alloc == 0 {
		alloc = cfg.Size
	}
	if alloc < cfg.Size {
		return nil, fmt.Errorf("%w: allocation %d < capacity %d",
			ErrInvalidAllocation, alloc, cfg.Size)
	}

	mode := selectMapMode(dev.Capabilities(), cfg.PreferCoherent)

	handle, err := dev.CreateBuffer(&BufferDesc{
		Label:     cfg.Label,
		Target:    cfg.Target,
		Size:      alloc,
		Streaming: mode == MapModePerWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	s := &StreamBuffer{
		dev:    dev,
		handle: handle,
		target: cfg.Target,
		size:   cfg.Size,
		mode:   mode,
	}

	if mode.Persistent() {
		// Map the whole logical range once; the mapping lives until the
		// first wraparound (remap) or Close.
		data, err := dev.MapRange(handle, 0, cfg.Size, s.mapFlags(false))
		if err != nil {
			dev.DestroyBuffer(handle)
			return nil, fmt.Errorf("%w: %w", ErrMapFailed, err)
		}
		s.mapped = data
		s.mappedOffset = 0
		s.remaps++
	}

	if alloc != cfg.Size {
		Logger().Debug("streambuf: allocation slack requested",
			"target", cfg.Target, "capacity", cfg.Size, "allocation", alloc)
	}
	Logger().Debug("streambuf: created",
		"target", cfg.Target, "capacity", cfg.Size, "mode", mode)

	return s, nil
}

// Handle returns the backend buffer handle, for binding the buffer to
// draw or dispatch commands. Read-only; no side effects.
func (s *StreamBuffer) Handle() BufferHandle { return s.handle }

// Size returns the logical capacity in bytes. Read-only; no side effects.
func (s *StreamBuffer) Size() uint64 { return s.size }

// Mode returns the mapping strategy fixed at construction.
func (s *StreamBuffer) Mode() MapMode { return s.mode }

// Map reserves size bytes of writable buffer space, aligned to alignment
// (0 means unaligned). It returns a write slice of exactly size bytes, the
// absolute byte offset of the reservation, and whether the cursor wrapped
// to 0 to satisfy the request.
//
// size and alignment must not exceed the capacity, and the previous Map
// (if any) must have been completed by Unmap. Violations are defects in
// the calling render code and panic rather than clamp; clamping would
// corrupt output with no diagnostic signal.
//
// The returned slice must not be retained past the matching Unmap.
func (s *StreamBuffer) Map(size, alignment uint64) ([]byte, uint64, bool) {
	if s.closed {
		panic(fmt.Sprintf("streambuf: Map on closed buffer (%v)", ErrClosed))
	}
	if size > s.size {
		panic(fmt.Sprintf("streambuf: Map size %d exceeds capacity %d", size, s.size))
	}
	if alignment > s.size {
		panic(fmt.Sprintf("streambuf: Map alignment %d exceeds capacity %d", alignment, s.size))
	}

	if alignment > 0 {
		s.pos = alignUp(s.pos, alignment)
	}

	wrapped := false
	if s.pos+size > s.size {
		// The request does not fit in the remaining space: wrap to the
		// start and invalidate everything previously written. An active
		// persistent mapping no longer extends the right window, so tear
		// it down before remapping.
		s.pos = 0
		wrapped = true
		s.wraps++
		if s.mode.Persistent() {
			s.dev.Unmap(s.handle)
			s.mapped = nil
		}
		Logger().Debug("streambuf: wraparound",
			"target", s.target, "capacity", s.size)
	}

	if wrapped || !s.mode.Persistent() {
		// Map from the cursor to the end of the capacity, not just the
		// requested size: subsequent reservations advance inside this
		// window without further mapping calls until the next wrap.
		data, err := s.dev.MapRange(s.handle, s.pos, s.size-s.pos, s.mapFlags(wrapped))
		if err != nil {
			panic(fmt.Errorf("%w: %w", ErrMapFailed, err))
		}
		s.mapped = data
		s.mappedOffset = s.pos
		s.remaps++
	}

	s.reserved = size
	s.mapCalls++

	rel := s.pos - s.mappedOffset
	// Three-index slice: the caller cannot write past the granted size.
	return s.mapped[rel : rel+size : rel+size], s.pos, wrapped
}

// Unmap publishes size bytes written into the slice returned by the open
// Map and advances the cursor. size may be less than the reservation when
// the producer wrote less than it asked for; it must not exceed it
// (panic). After Unmap the caller may issue GPU commands referencing the
// reserved region.
//
// On non-coherent modes exactly [offset, offset+size) is flushed. On the
// map-per-write path the mapping is released here, which itself publishes
// the writes.
func (s *StreamBuffer) Unmap(size uint64) {
	if s.closed {
		panic(fmt.Sprintf("streambuf: Unmap on closed buffer (%v)", ErrClosed))
	}
	if size > s.reserved {
		panic(fmt.Sprintf("streambuf: Unmap size %d exceeds reservation %d", size, s.reserved))
	}

	if !s.mode.Coherent() {
		s.dev.FlushRange(s.handle, s.pos, size)
		s.flushes++
	}

	if !s.mode.Persistent() {
		s.dev.Unmap(s.handle)
		s.mapped = nil
	}

	s.pos += size
	s.streamed += size
	s.reserved = 0
}

// Close releases the mapping (if one is active) and then the buffer, in
// that order, and is safe to call more than once.
func (s *StreamBuffer) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.mapped != nil {
		s.dev.Unmap(s.handle)
		s.mapped = nil
	}
	s.dev.DestroyBuffer(s.handle)
	s.handle = InvalidHandle

	Logger().Debug("streambuf: closed", "target", s.target)
}

// mapFlags builds the MapRange flags for the fixed mode. invalidate is
// true when the cursor just wrapped to 0: the driver may then discard the
// old contents instead of waiting for in-flight GPU reads. Otherwise the
// unsynchronized hint tells it not to block on readers of other regions.
func (s *StreamBuffer) mapFlags(invalidate bool) MapFlags {
	flags := MapWrite
	if s.mode.Persistent() {
		flags |= MapPersistent
	}
	if s.mode.Coherent() {
		flags |= MapCoherent
	} else {
		flags |= MapFlushExplicit
	}
	if invalidate {
		flags |= MapInvalidate
	} else {
		flags |= MapUnsynchronized
	}
	return flags
}

// alignUp rounds v up to the next multiple of align. align must be > 0.
func alignUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}
