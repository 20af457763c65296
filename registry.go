package debugdraw

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// BackendFactory returns a fresh backend. It is called once per
// NewBackend.
type BackendFactory func() Backend

// backendRegistry maps backend names to factories. Backend packages fill
// it from init, so lookups can race with registration only in tests.
type backendRegistry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

var registry = backendRegistry{factories: make(map[string]BackendFactory)}

func (r *backendRegistry) add(name string, factory BackendFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if factory == nil {
		panic("debugdraw: nil factory for backend " + name)
	}
	if _, taken := r.factories[name]; taken {
		panic("debugdraw: backend " + name + " registered twice")
	}
	r.factories[name] = factory
}

func (r *backendRegistry) lookup(name string) (BackendFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Register adds a backend under name. Backend packages call it from init
// and programs pick them up with a blank import; see backends/raster.
// A nil factory or a name already in use panics.
func Register(name string, factory BackendFactory) {
	registry.add(name, factory)
}

// Unregister forgets name. Tests use it to undo a Register.
func Unregister(name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.factories, name)
}

// NewBackend builds the backend registered under name.
//
//	import _ "github.com/gogpu/debugdraw/backends/raster"
//
//	b, err := debugdraw.NewBackend("raster")
func NewBackend(name string) (Backend, error) {
	factory, ok := registry.lookup(name)
	if !ok {
		return nil, fmt.Errorf("debugdraw: no backend %q; is its package imported?", name)
	}
	return factory(), nil
}

// IsRegistered reports whether NewBackend(name) would succeed.
func IsRegistered(name string) bool {
	_, ok := registry.lookup(name)
	return ok
}

// Backends lists the registered names, sorted.
func Backends() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}
