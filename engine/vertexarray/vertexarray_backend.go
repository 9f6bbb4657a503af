package vertexarray

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// Backend realizes vertex array records natively. Both implementations are observationally
// identical: after Bind, the native index binding, attribute pointers and divisors match the
// record, and the vertex target binding is the one passed in Bindings.
type Backend interface {
	// Strategy reports which strategy this backend implements.
	//
	// Returns:
	//   - capability.VertexArrayStrategy: the strategy
	Strategy() capability.VertexArrayStrategy

	// Create allocates whatever native state rec needs and configures it once. Caller-visible
	// bindings described by current are restored before returning.
	//
	// Parameters:
	//   - rec: the record built by Build; Native is set by native backends
	//   - current: the bindings to preserve
	//
	// Returns:
	//   - error: error if a source buffer disappeared or a divisor is unsupported
	Create(rec *resource.VertexArray, current Bindings) error

	// Bind activates rec, or deactivates the current vertex array when rec is nil. The vertex
	// target binding in current is preserved.
	//
	// Parameters:
	//   - rec: the record to activate, or nil
	//   - current: the active record and buffer bindings before the call
	//
	// Returns:
	//   - error: error if a source buffer disappeared
	Bind(rec *resource.VertexArray, current Bindings) error

	// DetachIndex clears the native index binding stored in an inactive rec. Native vertex arrays
	// keep a deleted buffer attached until they are rebound, so the binding is reset explicitly.
	// The active vertex array in current is rebound afterwards.
	//
	// Parameters:
	//   - rec: the inactive record whose index buffer is being deleted
	//   - current: the active record and buffer bindings
	DetachIndex(rec *resource.VertexArray, current Bindings)

	// Delete releases the native state of rec. It does not touch the registry.
	//
	// Parameters:
	//   - rec: the record to release
	Delete(rec *resource.VertexArray)
}

// NewBackend returns the backend matching the detected vertex array strategy.
//
// Parameters:
//   - reg: the registry; its capabilities select the strategy
//
// Returns:
//   - Backend: the backend
func NewBackend(reg *resource.Registry) Backend {
	if reg.Capabilities().Strategies.VertexArrays == capability.VertexArraysNative {
		return &nativeBackend{reg: reg}
	}
	return &shimBackend{reg: reg}
}
