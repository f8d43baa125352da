package streambuf

// BufferHandle is an opaque handle to a backend buffer resource.
// Each Device implementation maintains the mapping between handles and
// actual GPU resources.
type BufferHandle uint64

// InvalidHandle is the zero value, representing an invalid/null buffer.
const InvalidHandle BufferHandle = 0

// BufferDesc describes a buffer to create.
type BufferDesc struct {
	// Label is an optional debug name.
	Label string

	// Target is the binding point the buffer will feed.
	Target Target

	// Size is the allocation size in bytes.
	Size uint64

	// Streaming hints that the buffer contents are rewritten every frame
	// and mapped on demand. Set on the map-per-write path; backends may
	// use it to pick a streaming memory type.
	Streaming bool
}

// Device is the allocator's view of a GPU backend. Implementations live
// in backend/wgpu and backend/gogpu; tests supply mocks.
//
// MapRange returns a host-visible byte slice aliasing the buffer range
// [offset, offset+length). The slice stays valid until the next Unmap of
// the same handle. FlushRange offsets are absolute buffer offsets, not
// mapping-relative.
type Device interface {
	// Capabilities reports the driver capability flags, resolved once by
	// the backend layer.
	Capabilities() Capabilities

	// CreateBuffer allocates a buffer resource.
	CreateBuffer(desc *BufferDesc) (BufferHandle, error)

	// DestroyBuffer releases a buffer resource. Destroying a mapped buffer
	// without a prior Unmap is a backend-defined error.
	DestroyBuffer(h BufferHandle)

	// MapRange maps [offset, offset+length) for host access with the given
	// flags and returns the host-visible slice.
	MapRange(h BufferHandle, offset, length uint64, flags MapFlags) ([]byte, error)

	// FlushRange makes host writes to [offset, offset+length) visible to
	// the GPU. Required for non-coherent mappings created with
	// MapFlushExplicit; a no-op on coherent hardware.
	FlushRange(h BufferHandle, offset, length uint64)

	// Unmap invalidates the mapping of h. Slices returned by MapRange for
	// this handle must not be used afterwards.
	Unmap(h BufferHandle)
}
