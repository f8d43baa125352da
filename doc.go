// Package streambuf implements a ring-buffer allocator for streaming
// transient data (vertex, index, uniform) into GPU buffers without
// CPU-GPU stalls.
//
// A StreamBuffer wraps a single fixed-capacity GPU buffer and hands out
// write regions from a monotonically advancing cursor. When a request no
// longer fits, the cursor wraps to the start and the old contents are
// invalidated. The mapping strategy is fixed at construction from the
// device capabilities: persistently mapped (optionally coherent) where
// the driver supports it, mapped per write otherwise.
//
// # Usage
//
//	sb, err := streambuf.New(device, streambuf.Config{
//		Target: streambuf.TargetVertex,
//		Size:   4 << 20,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sb.Close()
//
//	data, offset, wrapped := sb.Map(vertexBytes, 4)
//	copy(data, vertices)
//	sb.Unmap(vertexBytes)
//	// bind sb.Handle() at offset and draw
//
// When wrapped is true the returned region reuses space from earlier
// frames; the caller must ensure the GPU has finished consuming them,
// typically by keeping the capacity large enough for several frames of
// data.
//
// # Backends
//
// Device implementations live in the backend subpackages and register
// themselves on import:
//
//	import _ "github.com/gogpu/streambuf/backend/wgpu"
//
// A Pool bundles one stream buffer per standard binding target for
// renderer setups.
//
// StreamBuffer and Pool are not safe for concurrent use; drive them
// from the thread that records GPU commands.
package streambuf
