// Package wgpu provides a stream buffer backend on the gogpu/wgpu
// hardware abstraction layer.
//
// The backend opens the first discrete or integrated GPU adapter exposed
// by the Vulkan HAL. Buffers are device local; mappings are realized as
// retained host shadows whose flushed ranges are uploaded through the
// queue, so the device reports persistent non-coherent mapping support.
//
// Importing the package registers the "wgpu" backend:
//
//	import _ "github.com/gogpu/streambuf/backend/wgpu"
package wgpu
