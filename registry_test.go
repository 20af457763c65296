package debugdraw

import (
	"slices"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	const name = "test-recorder"
	Register(name, func() Backend { return &recorder{} })
	t.Cleanup(func() { Unregister(name) })

	if !IsRegistered(name) {
		t.Fatalf("IsRegistered(%q) = false", name)
	}
	if !slices.Contains(Backends(), name) {
		t.Errorf("Backends() = %v, missing %q", Backends(), name)
	}
	if !slices.IsSorted(Backends()) {
		t.Errorf("Backends() = %v, not sorted", Backends())
	}

	b, err := NewBackend(name)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if _, ok := b.(*recorder); !ok {
		t.Errorf("NewBackend() = %T, want *recorder", b)
	}
	if b2, _ := NewBackend(name); b2 == b {
		t.Error("NewBackend() returned the same instance twice")
	}
}

func TestRegistryUnknown(t *testing.T) {
	_, err := NewBackend("no-such-backend")
	if err == nil || !strings.Contains(err.Error(), `"no-such-backend"`) {
		t.Errorf("NewBackend() error = %v", err)
	}
	if IsRegistered("no-such-backend") {
		t.Error("IsRegistered() = true for an unknown backend")
	}
}

func TestRegisterPanics(t *testing.T) {
	const name = "test-dup"
	Register(name, func() Backend { return &recorder{} })
	t.Cleanup(func() { Unregister(name) })

	tests := []struct {
		name    string
		factory BackendFactory
	}{
		{name, func() Backend { return &recorder{} }},
		{"test-nil", nil},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) did not panic", tt.name)
				}
			}()
			Register(tt.name, tt.factory)
		}()
	}
	if IsRegistered("test-nil") {
		t.Error("nil factory was registered")
	}
}
