package streambuf

import (
	"fmt"
	"strings"
)

// Capabilities describes what the active graphics driver supports.
// The backend layer resolves these once, outside the allocator; the
// allocator never probes the driver itself.
type Capabilities struct {
	// PersistentMapping is true when a buffer can stay mapped into host
	// address space while the GPU reads from it.
	PersistentMapping bool

	// CoherentMapping is true when host writes to a persistent mapping
	// become visible to the GPU without an explicit flush. Only meaningful
	// when PersistentMapping is true.
	CoherentMapping bool
}

// MapMode is the mapping strategy of a stream buffer, chosen once at
// construction and fixed for the buffer's lifetime.
type MapMode int

const (
	// MapModePerWrite establishes a fresh mapping for every Map call and
	// releases it in Unmap. Fallback when persistent mapping is unavailable.
	MapModePerWrite MapMode = iota

	// MapModePersistent keeps one mapping alive across Map/Unmap pairs,
	// remapping only on wraparound. Writes require an explicit flush.
	MapModePersistent

	// MapModePersistentCoherent is MapModePersistent without the flush:
	// host writes are visible to the GPU automatically.
	MapModePersistentCoherent
)

// Persistent reports whether the mapping survives across Map/Unmap pairs.
func (m MapMode) Persistent() bool { return m != MapModePerWrite }

// Coherent reports whether host writes are GPU-visible without a flush.
// Coherent implies Persistent; the reverse does not hold.
func (m MapMode) Coherent() bool { return m == MapModePersistentCoherent }

// String returns the string representation of MapMode.
func (m MapMode) String() string {
	switch m {
	case MapModePerWrite:
		return "PerWrite"
	case MapModePersistent:
		return "Persistent"
	case MapModePersistentCoherent:
		return "PersistentCoherent"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// selectMapMode fixes the mapping strategy from the driver capabilities
// and the caller's coherency preference. The preference is honored only
// when the driver can actually deliver it.
func selectMapMode(caps Capabilities, preferCoherent bool) MapMode {
	if !caps.PersistentMapping {
		return MapModePerWrite
	}
	if preferCoherent && caps.CoherentMapping {
		return MapModePersistentCoherent
	}
	return MapModePersistent
}

// MapFlags is a bitmask of access and synchronization hints passed to
// Device.MapRange. The flags mirror the semantics of explicit-mapping
// graphics APIs; backends translate them to whatever the driver expects.
type MapFlags uint32

// Mapping flags.
const (
	// MapWrite requests write access to the mapped range.
	MapWrite MapFlags = 1 << iota

	// MapPersistent requests a mapping that stays valid while the GPU
	// consumes the buffer.
	MapPersistent

	// MapCoherent requests automatic host-to-GPU visibility of writes.
	MapCoherent

	// MapInvalidate tells the driver the previous contents of the buffer
	// are dead, so it need not wait on in-flight GPU reads (orphaning).
	MapInvalidate

	// MapUnsynchronized tells the driver not to block on GPU readers of
	// other regions of the buffer.
	MapUnsynchronized

	// MapFlushExplicit announces that written subranges will be flushed
	// individually via Device.FlushRange.
	MapFlushExplicit
)

// Contains returns true if all flags in other are set in f.
func (f MapFlags) Contains(other MapFlags) bool {
	return f&other == other
}

// String returns a pipe-separated list of the set flags.
func (f MapFlags) String() string {
	if f == 0 {
		return "None"
	}
	names := []struct {
		flag MapFlags
		name string
	}{
		{MapWrite, "Write"},
		{MapPersistent, "Persistent"},
		{MapCoherent, "Coherent"},
		{MapInvalidate, "Invalidate"},
		{MapUnsynchronized, "Unsynchronized"},
		{MapFlushExplicit, "FlushExplicit"},
	}
	var parts []string
	for _, n := range names {
		if f.Contains(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
