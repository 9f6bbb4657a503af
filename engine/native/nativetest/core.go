package nativetest

import "github.com/Carmen-Shannon/oxy-gl/engine/native"

// Core is a GL 3.3 core context: the baseline Context plus core vertex arrays, instancing and
// multiple draw buffers.
type Core struct {
	*Context
}

var (
	_ native.Context            = &Core{}
	_ native.VertexArrayContext = &Core{}
	_ native.InstancedContext   = &Core{}
	_ native.DrawBuffersContext = &Core{}
)

// NewCore creates a core context reporting version 3.3 with four draw buffers and eight color
// attachments.
//
// Parameters:
//   - options: functional options, applied after the core defaults
//
// Returns:
//   - *Core: the context
func NewCore(options ...Option) *Core {
	opts := append([]Option{WithVersion(3, 3), WithLimits(4, 8)}, options...)
	return &Core{Context: New(opts...)}
}

func (c *Core) CreateVertexArray() native.VertexArray {
	c.record("CreateVertexArray")
	return c.createVertexArray()
}

func (c *Core) BindVertexArray(v native.VertexArray) {
	c.record("BindVertexArray")
	c.bindVertexArray(v)
}

func (c *Core) DeleteVertexArray(v native.VertexArray) {
	c.record("DeleteVertexArray")
	c.deleteVertexArray(v)
}

func (c *Core) DrawArraysInstanced(mode native.Enum, first, count, instances int32) {
	c.record("DrawArraysInstanced")
	c.drawArraysInstanced(mode, first, count, instances)
}

func (c *Core) DrawElementsInstanced(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) {
	c.record("DrawElementsInstanced")
	c.drawElementsInstanced(mode, count, typ, offset, instances)
}

func (c *Core) VertexAttribDivisor(index, divisor uint32) {
	c.record("VertexAttribDivisor")
	c.vertexAttribDivisor(index, divisor)
}

func (c *Core) DrawBuffers(bufs []native.Enum) {
	c.record("DrawBuffers")
	c.setDrawBuffers(bufs)
}

type oesVertexArrayObject struct {
	c *Context
}

var _ native.OESVertexArrayObject = &oesVertexArrayObject{}

func (e *oesVertexArrayObject) CreateVertexArrayOES() native.VertexArray {
	e.c.record("CreateVertexArrayOES")
	return e.c.createVertexArray()
}

func (e *oesVertexArrayObject) BindVertexArrayOES(v native.VertexArray) {
	e.c.record("BindVertexArrayOES")
	e.c.bindVertexArray(v)
}

func (e *oesVertexArrayObject) DeleteVertexArrayOES(v native.VertexArray) {
	e.c.record("DeleteVertexArrayOES")
	e.c.deleteVertexArray(v)
}

type angleInstancedArrays struct {
	c *Context
}

var _ native.ANGLEInstancedArrays = &angleInstancedArrays{}

func (e *angleInstancedArrays) DrawArraysInstancedANGLE(mode native.Enum, first, count, instances int32) {
	e.c.record("DrawArraysInstancedANGLE")
	e.c.drawArraysInstanced(mode, first, count, instances)
}

func (e *angleInstancedArrays) DrawElementsInstancedANGLE(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) {
	e.c.record("DrawElementsInstancedANGLE")
	e.c.drawElementsInstanced(mode, count, typ, offset, instances)
}

func (e *angleInstancedArrays) VertexAttribDivisorANGLE(index, divisor uint32) {
	e.c.record("VertexAttribDivisorANGLE")
	e.c.vertexAttribDivisor(index, divisor)
}

type webglDrawBuffers struct {
	c *Context
}

var _ native.WEBGLDrawBuffers = &webglDrawBuffers{}

func (e *webglDrawBuffers) DrawBuffersWEBGL(bufs []native.Enum) {
	e.c.record("DrawBuffersWEBGL")
	e.c.setDrawBuffers(bufs)
}
