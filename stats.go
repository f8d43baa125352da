package streambuf

import "fmt"

// Stats contains usage statistics for a stream buffer.
type Stats struct {
	// Capacity is the logical buffer size in bytes.
	Capacity uint64

	// WriteOffset is the current cursor position in bytes.
	WriteOffset uint64

	// Mode is the mapping strategy fixed at construction.
	Mode MapMode

	// MapCalls is the total number of Map reservations served.
	MapCalls uint64

	// Remaps is the number of driver mapping calls issued. On the
	// persistent path this stays far below MapCalls.
	Remaps uint64

	// Wraps is the number of times the cursor returned to offset 0.
	Wraps uint64

	// Flushes is the number of explicit flush calls issued. Zero on
	// coherent mappings.
	Flushes uint64

	// BytesStreamed is the total bytes published via Unmap.
	BytesStreamed uint64

	// Utilization is the cursor position as a fraction of capacity
	// (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable string of stream buffer stats.
func (s Stats) String() string {
	return fmt.Sprintf("Stream[%s, %.1f%% of %d KB, %d maps, %d remaps, %d wraps, %d KB streamed]",
		s.Mode,
		s.Utilization*100,
		s.Capacity/1024,
		s.MapCalls,
		s.Remaps,
		s.Wraps,
		s.BytesStreamed/1024)
}

// Stats returns current usage statistics.
func (s *StreamBuffer) Stats() Stats {
	var utilization float64
	if s.size > 0 {
		utilization = float64(s.pos) / float64(s.size)
	}

	return Stats{
		Capacity:      s.size,
		WriteOffset:   s.pos,
		Mode:          s.mode,
		MapCalls:      s.mapCalls,
		Remaps:        s.remaps,
		Wraps:         s.wraps,
		Flushes:       s.flushes,
		BytesStreamed: s.streamed,
		Utilization:   utilization,
	}
}
