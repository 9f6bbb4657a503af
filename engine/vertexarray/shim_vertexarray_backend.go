package vertexarray

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// shimBackend emulates vertex arrays on contexts without vertex array objects. Nothing is stored
// natively: every bind disables the previous record's arrays and re-issues the new record's
// attribute pointers, divisors and index binding.
type shimBackend struct {
	reg *resource.Registry
}

var _ Backend = &shimBackend{}

func (b *shimBackend) Strategy() capability.VertexArrayStrategy {
	return capability.VertexArraysShim
}

// Create applies rec once to validate its pointers against the native context, then puts the
// previously active configuration back.
func (b *shimBackend) Create(rec *resource.VertexArray, current Bindings) error {
	if err := b.activate(rec, current.VertexArray, current); err != nil {
		return err
	}
	return b.activate(current.VertexArray, rec, current)
}

func (b *shimBackend) Bind(rec *resource.VertexArray, current Bindings) error {
	return b.activate(rec, current.VertexArray, current)
}

// DetachIndex has nothing to do: the index binding is re-issued from the record on every bind.
func (b *shimBackend) DetachIndex(*resource.VertexArray, Bindings) {}

func (b *shimBackend) Delete(*resource.VertexArray) {}

// activate switches the emulated vertex array from prev to next; either may be nil.
func (b *shimBackend) activate(next, prev *resource.VertexArray, current Bindings) error {
	ctx := b.reg.Context()
	fn := b.reg.Capabilities().Functions

	if prev != nil {
		for loc, a := range prev.ByLocation {
			if a.Divisor != 0 {
				_ = fn.VertexAttribDivisor(loc, 0)
			}
			if next == nil {
				ctx.DisableVertexAttribArray(loc)
				continue
			}
			if _, kept := next.ByLocation[loc]; !kept {
				ctx.DisableVertexAttribArray(loc)
			}
		}
	}

	index := current.DefaultIndexBuffer
	if next != nil {
		var err error
		if index, err = indexNative(b.reg, next); err != nil {
			return err
		}
		if err := applyPointers(b.reg, next); err != nil {
			ctx.BindBuffer(native.ARRAY_BUFFER, current.ArrayBuffer)
			return err
		}
	}
	ctx.BindBuffer(native.ELEMENT_ARRAY_BUFFER, index)
	ctx.BindBuffer(native.ARRAY_BUFFER, current.ArrayBuffer)
	return nil
}
