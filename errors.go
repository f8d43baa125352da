package streambuf

import "errors"

// Allocator errors. These cover resource acquisition only: contract
// violations on the Map/Unmap hot path (oversized requests, mismatched
// Unmap sizes) are caller defects and panic instead of returning an error.
var (
	// ErrNilDevice is returned when constructing without a device.
	ErrNilDevice = errors.New("streambuf: device is nil")

	// ErrInvalidSize is returned when the requested capacity is invalid.
	ErrInvalidSize = errors.New("streambuf: invalid buffer size")

	// ErrInvalidAllocation is returned when AllocationSize is smaller than
	// the logical capacity.
	ErrInvalidAllocation = errors.New("streambuf: allocation size smaller than capacity")

	// ErrCreateFailed is returned when the underlying buffer cannot be created.
	ErrCreateFailed = errors.New("streambuf: buffer creation failed")

	// ErrMapFailed is returned (wrapped in a panic on the hot path) when the
	// device cannot establish a mapping.
	ErrMapFailed = errors.New("streambuf: buffer mapping failed")

	// ErrClosed is the panic value prefix for operations on a closed buffer.
	ErrClosed = errors.New("streambuf: stream buffer is closed")
)
