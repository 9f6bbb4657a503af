package engine

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// InstanceRegistry holds named engines for callers that need to reach an engine without passing it
// around. Nothing registers an engine implicitly, and releasing an engine does not unregister it.
type InstanceRegistry struct {
	mu      sync.Mutex
	engines map[string]Engine
	current string
}

// NewInstanceRegistry creates an empty registry.
//
// Returns:
//   - *InstanceRegistry: the registry
func NewInstanceRegistry() *InstanceRegistry {
	return &InstanceRegistry{engines: map[string]Engine{}}
}

// Register adds e under name. The first registered engine becomes current.
//
// Parameters:
//   - name: the key
//   - e: the engine
//
// Returns:
//   - error: wraps common.ErrDuplicateBinding if name is taken
func (r *InstanceRegistry) Register(name string, e Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[name]; ok {
		return fmt.Errorf("engine %q already registered: %w", name, common.ErrDuplicateBinding)
	}
	r.engines[name] = e
	if r.current == "" {
		r.current = name
	}
	return nil
}

// Unregister removes name. Removing the current engine leaves no current engine.
func (r *InstanceRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, name)
	if r.current == name {
		r.current = ""
	}
}

// Get returns the engine registered under name.
//
// Returns:
//   - Engine: the engine
//   - error: wraps common.ErrInvalidHandle for an unknown name
func (r *InstanceRegistry) Get(name string) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine %q: %w", name, common.ErrInvalidHandle)
	}
	return e, nil
}

// SetCurrent selects the engine Current returns.
//
// Returns:
//   - error: wraps common.ErrInvalidHandle for an unknown name
func (r *InstanceRegistry) SetCurrent(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[name]; !ok {
		return fmt.Errorf("engine %q: %w", name, common.ErrInvalidHandle)
	}
	r.current = name
	return nil
}

// Current returns the current engine.
//
// Returns:
//   - Engine: the engine
//   - error: wraps common.ErrInvalidHandle when no engine is current
func (r *InstanceRegistry) Current() (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == "" {
		return nil, fmt.Errorf("no current engine: %w", common.ErrInvalidHandle)
	}
	return r.engines[r.current], nil
}
