package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/streambuf"
)

// fakeBackend is a minimal StreamBackend for registry tests.
type fakeBackend struct {
	name    string
	initErr error
	inited  bool
	closed  bool
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	b.inited = true
	return nil
}

func (b *fakeBackend) Close() { b.closed = true }

func (b *fakeBackend) Device() streambuf.Device { return nil }

func cleanRegistry(t *testing.T, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range names {
			Unregister(name)
		}
	})
}

func TestRegisterAndGet(t *testing.T) {
	cleanRegistry(t, "test-backend")

	Register("test-backend", func() StreamBackend {
		return &fakeBackend{name: "test-backend"}
	})

	if !IsRegistered("test-backend") {
		t.Error("IsRegistered = false after Register")
	}

	b := Get("test-backend")
	if b == nil {
		t.Fatal("Get returned nil for registered backend")
	}
	if b.Name() != "test-backend" {
		t.Errorf("Name = %q, want %q", b.Name(), "test-backend")
	}
}

func TestGet_Unregistered(t *testing.T) {
	if Get("no-such-backend") != nil {
		t.Error("Get for unregistered backend should return nil")
	}
}

func TestUnregister(t *testing.T) {
	Register("transient", func() StreamBackend {
		return &fakeBackend{name: "transient"}
	})
	Unregister("transient")

	if IsRegistered("transient") {
		t.Error("IsRegistered = true after Unregister")
	}
}

func TestAvailable(t *testing.T) {
	cleanRegistry(t, "avail-a", "avail-b")

	Register("avail-a", func() StreamBackend { return &fakeBackend{name: "avail-a"} })
	Register("avail-b", func() StreamBackend { return &fakeBackend{name: "avail-b"} })

	names := Available()
	if !slices.Contains(names, "avail-a") || !slices.Contains(names, "avail-b") {
		t.Errorf("Available() = %v, missing registered backends", names)
	}
}

func TestDefault_Priority(t *testing.T) {
	cleanRegistry(t, BackendWGPU, BackendGoGPU)

	Register(BackendGoGPU, func() StreamBackend {
		return &fakeBackend{name: BackendGoGPU}
	})
	Register(BackendWGPU, func() StreamBackend {
		return &fakeBackend{name: BackendWGPU}
	})

	b := Default()
	if b == nil {
		t.Fatal("Default returned nil")
	}
	if b.Name() != BackendWGPU {
		t.Errorf("Default = %q, want %q (higher priority)", b.Name(), BackendWGPU)
	}
}

func TestDefault_FallbackToAnyRegistered(t *testing.T) {
	cleanRegistry(t, "custom")

	Register("custom", func() StreamBackend {
		return &fakeBackend{name: "custom"}
	})

	b := Default()
	if b == nil {
		t.Fatal("Default returned nil with a registered backend")
	}
}

func TestInitDefault(t *testing.T) {
	cleanRegistry(t, BackendWGPU)

	fake := &fakeBackend{name: BackendWGPU}
	Register(BackendWGPU, func() StreamBackend { return fake })

	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault failed: %v", err)
	}
	if !fake.inited {
		t.Error("InitDefault did not call Init")
	}
	if b != fake {
		t.Error("InitDefault returned a different backend instance")
	}
}

func TestInitDefault_InitError(t *testing.T) {
	cleanRegistry(t, BackendWGPU)

	wantErr := errors.New("no adapter")
	Register(BackendWGPU, func() StreamBackend {
		return &fakeBackend{name: BackendWGPU, initErr: wantErr}
	})

	_, err := InitDefault()
	if !errors.Is(err, wantErr) {
		t.Errorf("InitDefault: got %v, want %v", err, wantErr)
	}
}

func TestMustDefault_PanicsEmpty(t *testing.T) {
	// Registry may carry backends registered by other tests; only run the
	// panic check when it is actually empty.
	if len(Available()) != 0 {
		t.Skip("registry not empty")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustDefault did not panic with empty registry")
		}
	}()
	MustDefault()
}
