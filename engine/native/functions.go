package native

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Functions is the normalized entry-point table for capability-gated calls. The capability
// detector fills it once, aliasing core or extension entry points under one name, so callers never
// branch on capability at call time.
//
// The vertex array entries are nil when neither core nor extension vertex arrays exist; the shim
// vertex array strategy never calls them. The instancing and draw-buffers entries are always set;
// when the capability is missing they are stubs that return common.ErrUnsupported.
type Functions struct {
	CreateVertexArray func() VertexArray
	BindVertexArray   func(v VertexArray)
	DeleteVertexArray func(v VertexArray)

	DrawArraysInstanced   func(mode Enum, first, count, instances int32) error
	DrawElementsInstanced func(mode Enum, count int32, typ Enum, offset int, instances int32) error
	VertexAttribDivisor   func(index, divisor uint32) error

	DrawBuffers func(bufs []Enum) error
}

// UnsupportedDrawArraysInstanced is the stub installed when instanced drawing is unavailable.
func UnsupportedDrawArraysInstanced(Enum, int32, int32, int32) error {
	return fmt.Errorf("drawArraysInstanced: %w", common.ErrUnsupported)
}

// UnsupportedDrawElementsInstanced is the stub installed when instanced drawing is unavailable.
func UnsupportedDrawElementsInstanced(Enum, int32, Enum, int, int32) error {
	return fmt.Errorf("drawElementsInstanced: %w", common.ErrUnsupported)
}

// UnsupportedVertexAttribDivisor is the stub installed when instanced drawing is unavailable. A zero
// divisor is the native default and is accepted.
func UnsupportedVertexAttribDivisor(index, divisor uint32) error {
	if divisor == 0 {
		return nil
	}
	return fmt.Errorf("vertexAttribDivisor(%d, %d): %w", index, divisor, common.ErrUnsupported)
}

// SingleDrawBuffer is the draw-buffers entry for contexts that can only render to the first color
// attachment. Selecting exactly that attachment, or nothing, is accepted as a no-op.
func SingleDrawBuffer(bufs []Enum) error {
	switch {
	case len(bufs) == 0:
		return nil
	case len(bufs) == 1 && bufs[0] == COLOR_ATTACHMENT0:
		return nil
	}
	return fmt.Errorf("drawBuffers with %d targets: %w", len(bufs), common.ErrUnsupported)
}
