// Package backend provides a pluggable GPU backend abstraction for
// stream buffer allocation.
//
// The backend package lets streambuf run on multiple graphics stacks.
// Two backends are provided: "wgpu" drives the gogpu/wgpu hardware
// abstraction layer directly, and "gogpu" uses the portable gogpu
// runtime.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import (
//		_ "github.com/gogpu/streambuf/backend/gogpu"
//		_ "github.com/gogpu/streambuf/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	sb, err := streambuf.New(b.Device(), streambuf.Config{
//		Target: streambuf.TargetVertex,
//		Size:   4 << 20,
//	})
package backend
