package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory creates a backend. The compositor calls it again after a
// graphics reset.
type Factory func() (RenderBackend, error)

type entry struct {
	priority  int
	factory   Factory
	available func() bool
}

// Registry maps backend names to factories. Higher priority wins when the
// compositor picks a backend on its own.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var globalRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Default returns the registry backends add themselves to on import.
func Default() *Registry { return globalRegistry }

// Register adds a backend to the default registry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// NewByName creates the named backend from the default registry.
func NewByName(name string) (RenderBackend, error) {
	return globalRegistry.NewByName(name)
}

// Register adds or replaces a backend. A nil available means the backend
// can always run.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	r.entries[name] = entry{priority: priority, factory: factory, available: available}
	r.mu.Unlock()
}

// Names returns the backends that can run here, highest priority first.
// Equal priorities sort by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if e.available() {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.entries[names[i]].priority, r.entries[names[j]].priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// New creates the first backend in Names order whose factory succeeds.
func (r *Registry) New() (RenderBackend, error) {
	names := r.Names()
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range names {
		b, err := r.NewByName(name)
		if err == nil {
			return b, nil
		}
		slogger().Debug("backend failed, trying next", "backend", name, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// NewByName creates the named backend.
func (r *Registry) NewByName(name string) (RenderBackend, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !e.available() {
		return nil, &BackendUnavailableError{Name: name}
	}

	b, err := e.factory()
	if err != nil {
		return nil, fmt.Errorf("backend: create %s: %w", name, err)
	}
	return b, nil
}

// Factory returns a factory for the named backend, or for the best
// available one when name is empty.
func (r *Registry) Factory(name string) Factory {
	if name == "" {
		return r.New
	}
	return func() (RenderBackend, error) { return r.NewByName(name) }
}

// ErrNoBackendAvailable is returned by New when no registered backend can run.
var ErrNoBackendAvailable = errors.New("backend: no backend available")

// BackendNotFoundError reports a name nobody registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "backend: not found: " + e.Name
}

// BackendUnavailableError reports a registered backend that cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "backend: unavailable: " + e.Name
}
