package wgpu

import (
	"github.com/gogpu/streambuf/backend"
)

// init registers the wgpu backend on package import.
// This enables automatic backend selection when using backend.Default().
//
// To use the wgpu backend, import this package:
//
//	import _ "github.com/gogpu/streambuf/backend/wgpu"
func init() {
	backend.Register(backend.BackendWGPU, func() backend.StreamBackend {
		return New()
	})
}
