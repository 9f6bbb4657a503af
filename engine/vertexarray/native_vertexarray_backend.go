package vertexarray

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// nativeBackend wraps native vertex array objects. Binding one restores every attribute pointer and
// the index binding in a single call.
type nativeBackend struct {
	reg *resource.Registry
}

var _ Backend = &nativeBackend{}

func (b *nativeBackend) Strategy() capability.VertexArrayStrategy {
	return capability.VertexArraysNative
}

func (b *nativeBackend) Create(rec *resource.VertexArray, current Bindings) error {
	ctx := b.reg.Context()
	fn := b.reg.Capabilities().Functions

	index, err := indexNative(b.reg, rec)
	if err != nil {
		return err
	}

	rec.Native = fn.CreateVertexArray()
	fn.BindVertexArray(rec.Native)
	err = applyPointers(b.reg, rec)
	if err == nil && index != 0 {
		ctx.BindBuffer(native.ELEMENT_ARRAY_BUFFER, index)
	}

	fn.BindVertexArray(nativeName(current.VertexArray))
	ctx.BindBuffer(native.ARRAY_BUFFER, current.ArrayBuffer)
	if err != nil {
		fn.DeleteVertexArray(rec.Native)
		rec.Native = 0
	}
	return err
}

func (b *nativeBackend) Bind(rec *resource.VertexArray, current Bindings) error {
	b.reg.Capabilities().Functions.BindVertexArray(nativeName(rec))
	return nil
}

func (b *nativeBackend) DetachIndex(rec *resource.VertexArray, current Bindings) {
	if rec.Native == 0 {
		return
	}
	fn := b.reg.Capabilities().Functions
	fn.BindVertexArray(rec.Native)
	b.reg.Context().BindBuffer(native.ELEMENT_ARRAY_BUFFER, 0)
	fn.BindVertexArray(nativeName(current.VertexArray))
}

func (b *nativeBackend) Delete(rec *resource.VertexArray) {
	if rec.Native != 0 {
		b.reg.Capabilities().Functions.DeleteVertexArray(rec.Native)
		rec.Native = 0
	}
}

func nativeName(rec *resource.VertexArray) native.VertexArray {
	if rec == nil {
		return 0
	}
	return rec.Native
}
