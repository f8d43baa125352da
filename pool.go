package streambuf

import "fmt"

// Default per-target stream capacities.
const (
	// DefaultVertexBytes is the default vertex stream capacity (4 MB).
	DefaultVertexBytes = 4 << 20

	// DefaultIndexBytes is the default index stream capacity (1 MB).
	DefaultIndexBytes = 1 << 20

	// DefaultUniformBytes is the default uniform stream capacity (2 MB).
	DefaultUniformBytes = 2 << 20
)

// PoolConfig holds configuration for creating a Pool. Zero capacities
// fall back to the package defaults; every pool carries all three
// standard streams.
type PoolConfig struct {
	// VertexBytes is the vertex stream capacity.
	// Defaults to DefaultVertexBytes if 0.
	VertexBytes uint64

	// IndexBytes is the index stream capacity.
	// Defaults to DefaultIndexBytes if 0.
	IndexBytes uint64

	// UniformBytes is the uniform stream capacity.
	// Defaults to DefaultUniformBytes if 0.
	UniformBytes uint64

	// PreferCoherent requests coherent mappings for all streams, honored
	// per the device capabilities.
	PreferCoherent bool
}

// Pool owns one stream buffer per standard binding target, the usual
// setup for a renderer streaming vertex, index and uniform data each
// frame. Like the stream buffers it holds, a Pool is driven from the
// command-recording thread and is not safe for concurrent use.
type Pool struct {
	streams map[Target]*StreamBuffer
	closed  bool
}

// NewPool creates stream buffers for the vertex, index and uniform
// targets on dev. If any stream fails to create, the ones already
// created are released and the error is returned.
func NewPool(dev Device, cfg PoolConfig) (*Pool, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}

	sizes := map[Target]uint64{
		TargetVertex:  cfg.VertexBytes,
		TargetIndex:   cfg.IndexBytes,
		TargetUniform: cfg.UniformBytes,
	}
	if sizes[TargetVertex] == 0 {
		sizes[TargetVertex] = DefaultVertexBytes
	}
	if sizes[TargetIndex] == 0 {
		sizes[TargetIndex] = DefaultIndexBytes
	}
	if sizes[TargetUniform] == 0 {
		sizes[TargetUniform] = DefaultUniformBytes
	}

	p := &Pool{streams: make(map[Target]*StreamBuffer, len(sizes))}
	for _, target := range []Target{TargetVertex, TargetIndex, TargetUniform} {
		sb, err := New(dev, Config{
			Label:          fmt.Sprintf("stream-%s", target),
			Target:         target,
			Size:           sizes[target],
			PreferCoherent: cfg.PreferCoherent,
		})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("streambuf: creating %s stream: %w", target, err)
		}
		p.streams[target] = sb
	}

	return p, nil
}

// Get returns the stream buffer for target, or nil if the pool does not
// carry one.
func (p *Pool) Get(target Target) *StreamBuffer {
	return p.streams[target]
}

// Vertex returns the vertex stream buffer.
func (p *Pool) Vertex() *StreamBuffer { return p.streams[TargetVertex] }

// Index returns the index stream buffer.
func (p *Pool) Index() *StreamBuffer { return p.streams[TargetIndex] }

// Uniform returns the uniform stream buffer.
func (p *Pool) Uniform() *StreamBuffer { return p.streams[TargetUniform] }

// Stats returns per-target usage statistics.
func (p *Pool) Stats() map[Target]Stats {
	stats := make(map[Target]Stats, len(p.streams))
	for target, sb := range p.streams {
		stats[target] = sb.Stats()
	}
	return stats
}

// Close releases all stream buffers. Safe to call more than once.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	p.closed = true

	for _, sb := range p.streams {
		sb.Close()
	}
	p.streams = nil
}
