package streambuf

import (
	"errors"
	"testing"
)

func TestNewPool(t *testing.T) {
	device := persistentDevice()

	pool, err := NewPool(device, PoolConfig{})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	if device.created != 3 {
		t.Errorf("buffers created = %d, want 3", device.created)
	}

	if pool.Vertex() == nil || pool.Index() == nil || pool.Uniform() == nil {
		t.Fatal("pool is missing a standard stream")
	}
	if pool.Vertex().Size() != DefaultVertexBytes {
		t.Errorf("vertex capacity = %d, want %d", pool.Vertex().Size(), DefaultVertexBytes)
	}
	if pool.Index().Size() != DefaultIndexBytes {
		t.Errorf("index capacity = %d, want %d", pool.Index().Size(), DefaultIndexBytes)
	}
	if pool.Uniform().Size() != DefaultUniformBytes {
		t.Errorf("uniform capacity = %d, want %d", pool.Uniform().Size(), DefaultUniformBytes)
	}
}

func TestNewPool_NilDevice(t *testing.T) {
	_, err := NewPool(nil, PoolConfig{})
	if !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewPool(nil device): got %v, want ErrNilDevice", err)
	}
}

func TestNewPool_CustomSizes(t *testing.T) {
	pool, err := NewPool(persistentDevice(), PoolConfig{
		VertexBytes:  8 << 20,
		IndexBytes:   512,
		UniformBytes: 4096,
	})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	if pool.Vertex().Size() != 8<<20 {
		t.Errorf("vertex capacity = %d, want %d", pool.Vertex().Size(), 8<<20)
	}
	if pool.Index().Size() != 512 {
		t.Errorf("index capacity = %d, want 512", pool.Index().Size())
	}
	if pool.Uniform().Size() != 4096 {
		t.Errorf("uniform capacity = %d, want 4096", pool.Uniform().Size())
	}
}

func TestNewPool_PartialFailureCleansUp(t *testing.T) {
	device := persistentDevice()
	fail := false
	device.createBufferFunc = func(desc *BufferDesc) (BufferHandle, error) {
		if fail {
			return InvalidHandle, errors.New("out of memory")
		}
		if desc.Target == TargetIndex {
			// First creation succeeds, everything after fails.
			fail = true
		}
		device.mem = make([]byte, desc.Size)
		return BufferHandle(1), nil
	}

	_, err := NewPool(device, PoolConfig{})
	if !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("NewPool: got %v, want ErrCreateFailed", err)
	}

	// The streams created before the failure must be released.
	if device.destroyed != 2 {
		t.Errorf("buffers destroyed = %d, want 2", device.destroyed)
	}
}

func TestPool_Get(t *testing.T) {
	pool, err := NewPool(persistentDevice(), PoolConfig{})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	if pool.Get(TargetVertex) != pool.Vertex() {
		t.Error("Get(TargetVertex) != Vertex()")
	}
	if pool.Get(TargetStorage) != nil {
		t.Error("Get(TargetStorage) should return nil, pool carries no storage stream")
	}
}

func TestPool_Stats(t *testing.T) {
	pool, err := NewPool(persistentDevice(), PoolConfig{})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	vb := pool.Vertex()
	_, _, _ = vb.Map(1000, 4)
	vb.Unmap(1000)

	stats := pool.Stats()
	if len(stats) != 3 {
		t.Fatalf("len(Stats()) = %d, want 3", len(stats))
	}
	if stats[TargetVertex].BytesStreamed != 1000 {
		t.Errorf("vertex BytesStreamed = %d, want 1000", stats[TargetVertex].BytesStreamed)
	}
	if stats[TargetIndex].MapCalls != 0 {
		t.Errorf("index MapCalls = %d, want 0", stats[TargetIndex].MapCalls)
	}
}

func TestPool_Close(t *testing.T) {
	device := persistentDevice()
	pool, err := NewPool(device, PoolConfig{})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	pool.Close()
	pool.Close() // idempotent

	if device.destroyed != 3 {
		t.Errorf("buffers destroyed = %d, want 3", device.destroyed)
	}
	if pool.Get(TargetVertex) != nil {
		t.Error("Get after Close should return nil")
	}
}
