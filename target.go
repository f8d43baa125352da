package streambuf

import "fmt"

// Target identifies the binding point a stream buffer feeds. It is an
// opaque pass-through to the backend's buffer-creation call; the allocator
// itself never interprets it.
type Target int

// Binding targets.
const (
	// TargetVertex streams vertex attribute data.
	TargetVertex Target = iota

	// TargetIndex streams index data.
	TargetIndex

	// TargetUniform streams uniform/constant block data.
	TargetUniform

	// TargetStorage streams shader storage data.
	TargetStorage

	// TargetIndirect streams indirect draw/dispatch arguments.
	TargetIndirect
)

// String returns the string representation of Target.
func (t Target) String() string {
	switch t {
	case TargetVertex:
		return "Vertex"
	case TargetIndex:
		return "Index"
	case TargetUniform:
		return "Uniform"
	case TargetStorage:
		return "Storage"
	case TargetIndirect:
		return "Indirect"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}
