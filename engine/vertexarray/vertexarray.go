// Package vertexarray builds vertex array records from attribute descriptors and realizes them
// through one of two strategies: native vertex array objects, or a shim that re-issues every
// attribute pointer on each bind. The strategy is chosen once from the detected capabilities.
package vertexarray

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// Descriptor describes one attribute pointer. The component type is not part of the descriptor; it
// is inherited from the last payload uploaded to Buffer.
type Descriptor struct {
	// Location is the attribute location, 0 <= Location < MaxVertexAttribs.
	Location int

	// Buffer is the source vertex buffer.
	Buffer resource.Handle

	// Size is the component count, 1 to 4.
	Size int

	Normalized bool

	// Stride and Offset are in bytes. A zero stride means tightly packed.
	Stride int
	Offset int

	// Divisor is the instancing divisor; nonzero requires instancing support.
	Divisor int
}

// Build validates descs and produces a vertex array record. Build performs no native calls, so a
// rejected descriptor list leaves nothing behind.
//
// Parameters:
//   - reg: the registry holding the source buffers
//   - descs: the attribute descriptors
//   - indexBuffer: an index buffer handle, or resource.None
//
// Returns:
//   - *resource.VertexArray: the record, with Native unset
//   - error: common.ErrInvalidHandle, common.ErrDuplicateBinding, common.ErrArgumentShape or common.ErrUnsupported
func Build(reg *resource.Registry, descs []Descriptor, indexBuffer resource.Handle) (*resource.VertexArray, error) {
	caps := reg.Capabilities().Record
	rec := &resource.VertexArray{
		Attribs:    map[resource.Handle][]resource.Attrib{},
		ByLocation: map[uint32]resource.Attrib{},
	}

	for i, d := range descs {
		if d.Location < 0 || (caps.MaxVertexAttribs > 0 && d.Location >= caps.MaxVertexAttribs) {
			return nil, fmt.Errorf("descriptor %d: location %d out of range: %w", i, d.Location, common.ErrArgumentShape)
		}
		if d.Size < 1 || d.Size > 4 {
			return nil, fmt.Errorf("descriptor %d: component count %d: %w", i, d.Size, common.ErrArgumentShape)
		}
		if d.Stride < 0 || d.Offset < 0 || d.Divisor < 0 {
			return nil, fmt.Errorf("descriptor %d: negative stride, offset or divisor: %w", i, common.ErrArgumentShape)
		}
		buf, err := reg.Buffers.Get(d.Buffer)
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		if buf.IsIndex() {
			return nil, fmt.Errorf("descriptor %d: buffer %d is an index buffer: %w", i, d.Buffer, common.ErrInvalidHandle)
		}
		if buf.Type == 0 {
			return nil, fmt.Errorf("descriptor %d: buffer %d has no typed payload: %w", i, d.Buffer, common.ErrUnsupported)
		}
		loc := uint32(d.Location)
		if _, dup := rec.ByLocation[loc]; dup {
			return nil, fmt.Errorf("descriptor %d: location %d: %w", i, loc, common.ErrDuplicateBinding)
		}
		if d.Divisor > 0 && !caps.Instancing {
			return nil, fmt.Errorf("descriptor %d: instancing divisor: %w", i, common.ErrUnsupported)
		}

		a := resource.Attrib{
			Location:   loc,
			Buffer:     d.Buffer,
			Size:       int32(d.Size),
			Type:       buf.Type,
			Normalized: d.Normalized,
			Stride:     int32(d.Stride),
			Offset:     int32(d.Offset),
			Divisor:    uint32(d.Divisor),
		}
		if _, seen := rec.Attribs[d.Buffer]; !seen {
			rec.Buffers = append(rec.Buffers, d.Buffer)
		}
		rec.Attribs[d.Buffer] = append(rec.Attribs[d.Buffer], a)
		rec.ByLocation[loc] = a
		rec.HasDivisor = rec.HasDivisor || a.Divisor != 0
	}

	if indexBuffer != resource.None {
		buf, err := reg.Buffers.Get(indexBuffer)
		if err != nil {
			return nil, fmt.Errorf("index buffer: %w", err)
		}
		if !buf.IsIndex() {
			return nil, fmt.Errorf("buffer %d is not an index buffer: %w", indexBuffer, common.ErrInvalidHandle)
		}
		rec.IndexBuffer = indexBuffer
	}
	return rec, nil
}

// Bindings is the part of the binding shadow a backend must preserve.
type Bindings struct {
	// VertexArray is the active vertex array, or nil.
	VertexArray *resource.VertexArray

	// ArrayBuffer is the native buffer bound to the vertex target.
	ArrayBuffer native.Buffer

	// DefaultIndexBuffer is the native buffer bound to the index target while no vertex array
	// is active.
	DefaultIndexBuffer native.Buffer
}

// indexNative resolves the native index buffer a record binds.
func indexNative(reg *resource.Registry, rec *resource.VertexArray) (native.Buffer, error) {
	if rec.IndexBuffer == resource.None {
		return 0, nil
	}
	buf, err := reg.Buffers.Get(rec.IndexBuffer)
	if err != nil {
		return 0, err
	}
	return buf.Native, nil
}

// applyPointers issues the attribute pointers of rec, leaving the last source buffer bound to the
// vertex target.
func applyPointers(reg *resource.Registry, rec *resource.VertexArray) error {
	ctx := reg.Context()
	fn := reg.Capabilities().Functions
	for _, h := range rec.Buffers {
		buf, err := reg.Buffers.Get(h)
		if err != nil {
			return err
		}
		ctx.BindBuffer(native.ARRAY_BUFFER, buf.Native)
		for _, a := range rec.Attribs[h] {
			ctx.EnableVertexAttribArray(a.Location)
			ctx.VertexAttribPointer(a.Location, a.Size, a.Type, a.Normalized, a.Stride, a.Offset)
			if a.Divisor != 0 {
				if err := fn.VertexAttribDivisor(a.Location, a.Divisor); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
